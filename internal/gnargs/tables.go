package gnargs

import "github.com/goplus/skbuild/internal/platform"

var basic = []Flag{
	String("cc", "clang"),
	String("cxx", "clang++"),
}

// release is shared by every platform in the Release configuration. The
// unicode pair is filled in by releaseFlags.
var release = []Flag{
	Bool("skia_use_system_libjpeg_turbo", false),
	Bool("skia_use_system_libpng", false),
	Bool("skia_use_system_zlib", false),
	Bool("skia_use_system_expat", false),
	Bool("skia_use_system_icu", false),
	Bool("skia_use_system_harfbuzz", false),

	Bool("skia_use_libwebp_decode", false),
	Bool("skia_use_libwebp_encode", false),
	Bool("skia_use_xps", false),
	Bool("skia_use_dng_sdk", false),
	Bool("skia_use_expat", true),
	Bool("skia_use_gl", true),
}

var releaseTail = []Flag{
	Bool("skia_enable_graphite", true),
	Bool("skia_enable_svg", true),
	Bool("skia_enable_skottie", true),
	Bool("skia_enable_pdf", false),
	Bool("skia_enable_gpu", true),
	Bool("skia_enable_skparagraph", true),
}

func releaseFlags(u platform.Unicode) []Flag {
	flags := make([]Flag, 0, len(release)+2+len(releaseTail))
	flags = append(flags, release...)
	flags = append(flags,
		Bool("skia_use_icu", u != platform.Libgrapheme),
		Bool("skia_use_libgrapheme", u == platform.Libgrapheme),
	)
	return append(flags, releaseTail...)
}

// cpuOnly disables every GPU backend. It follows the cpu platform table.
var cpuOnly = []Flag{
	Bool("skia_enable_gpu", false),
	Bool("skia_enable_graphite", false),
	Bool("skia_use_gl", false),
	Bool("skia_use_vulkan", false),
}

var noWerrorC = List("extra_cflags_c", "-Wno-error")

func iosCflags(minVersion string) Flag {
	return List("extra_cflags",
		"-miphoneos-version-min="+minVersion,
		"-I../../../src/skia/third_party/externals/expat/lib",
	)
}

// wasmFlags differ between variants only in the web GPU backends.
func wasmFlags(gpu bool) []Flag {
	return []Flag{
		String("target_os", "wasm"),
		Bool("is_component_build", false),
		Bool("is_trivial_abi", true),
		Bool("werror", true),
		Bool("skia_use_angle", false),
		Bool("skia_use_dng_sdk", false),
		Bool("skia_use_webgl", gpu),
		Bool("skia_use_webgpu", gpu),
		Bool("skia_use_expat", false),
		Bool("skia_use_fontconfig", false),
		Bool("skia_use_freetype", true),
		Bool("skia_use_libheif", false),
		Bool("skia_use_libjpeg_turbo_decode", true),
		Bool("skia_use_libjpeg_turbo_encode", false),
		Bool("skia_use_no_jpeg_encode", true),
		Bool("skia_use_libpng_decode", true),
		Bool("skia_use_libpng_encode", true),
		Bool("skia_use_no_png_encode", false),
		Bool("skia_use_libwebp_decode", true),
		Bool("skia_use_libwebp_encode", false),
		Bool("skia_use_no_webp_encode", true),
		Bool("skia_use_lua", false),
		Bool("skia_use_piex", false),
		Bool("skia_use_system_freetype2", false),
		Bool("skia_use_system_libwebp", false),
		Bool("skia_use_vulkan", false),
		Bool("skia_use_wuffs", true),
		Bool("skia_use_zlib", true),
		Bool("skia_enable_ganesh", gpu),
		Bool("skia_enable_graphite", false),
		Bool("skia_build_for_debugger", false),
		Bool("skia_enable_skottie", false),
		Bool("skia_use_client_icu", false),
		Bool("skia_use_icu4x", false),
		Bool("skia_use_harfbuzz", true),
		Bool("skia_use_system_harfbuzz", false),
		Bool("skia_enable_fontmgr_custom_directory", false),
		Bool("skia_enable_fontmgr_custom_embedded", true),
		Bool("skia_enable_fontmgr_custom_empty", true),
		Bool("skia_use_freetype_woff2", true),
		Bool("skia_enable_skshaper", true),
	}
}

// platformFlags returns the variant-specific table for p.
func platformFlags(p platform.Platform, v platform.Variant, opts Options) []Flag {
	gpu := v == platform.GPU
	switch p {
	case platform.Mac:
		return []Flag{
			Bool("skia_use_metal", gpu),
			Bool("skia_use_dawn", gpu),
			String("target_os", "mac"),
			noWerrorC,
		}
	case platform.IOS:
		return []Flag{
			Bool("skia_use_metal", gpu),
			String("target_os", "ios"),
			Bool("skia_ios_use_signing", false),
			iosCflags(opts.iosMinVersion()),
			noWerrorC,
		}
	case platform.Win:
		return []Flag{
			Bool("skia_use_dawn", gpu),
			Bool("skia_use_direct3d", gpu),
			Bool("is_trivial_abi", false),
		}
	case platform.Wasm:
		return wasmFlags(gpu)
	case platform.Linux:
		return []Flag{
			Bool("skia_use_vulkan", gpu),
			Bool("skia_use_dawn", gpu),
			Bool("skia_use_x11", true),
			Bool("skia_use_fontconfig", true),
			Bool("skia_use_freetype", true),
			Bool("skia_use_system_freetype2", false),
			noWerrorC,
		}
	}
	return nil
}
