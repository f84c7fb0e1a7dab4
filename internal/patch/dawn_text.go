package patch

// Text blocks for the Dawn iOS/visionOS patch. Each anchor must occur in the
// pristine file; it is replaced by the matching patched block.
const (
	argsGniAnchor = `  dawn_enable_vulkan = is_linux || is_android
}`
	argsGniPatched = `  dawn_enable_vulkan = is_linux || is_android

  # Target platform override for visionOS builds (which use target_os=ios as a workaround)
  # Set to "visionos" when building for visionOS, otherwise leave as empty string
  dawn_target_platform = ""
}`

	buildGnAnchor = `  args += sanitizer_args`
	buildGnPatched = `
  # Pass iOS simulator flag to CMake (iOS only)
  # This is needed because on Apple Silicon, arm64 is used for both device
  # and simulator builds, so we can't infer simulator from CPU architecture.
  if (is_ios && defined(ios_use_simulator) && ios_use_simulator) {
    args += [ "--ios_simulator" ]
  }

  # Pass visionOS target platform to CMake (for visionOS builds using target_os=ios workaround)
  # When dawn_target_platform="visionos", Dawn will use xros SDK instead of iphoneos SDK
  if (is_ios && defined(dawn_target_platform) && dawn_target_platform == "visionos") {
    args += [ "--visionos" ]
  }

  args += sanitizer_args`

	buildDawnImports = `from cmake_utils import (add_common_cmake_args, combine_into_library,
                         discover_dependencies, get_cmake_os_cpu,
                         get_windows_settings, quote_if_needed, write_depfile,
                         get_third_party_locations)`
	buildDawnImportsPatched = `from cmake_utils import (add_common_cmake_args, combine_into_library,
                         discover_dependencies, get_cmake_os_cpu,
                         get_windows_settings, get_ios_settings,
                         get_visionos_settings, quote_if_needed, write_depfile,
                         get_third_party_locations)`

	buildDawnParser = `parser.add_argument(
      "--dawn_enable_vulkan", default="false", help="Enable Vulkan backend.")
  args = parser.parse_args()`
	buildDawnParserPatched = `parser.add_argument(
      "--dawn_enable_vulkan", default="false", help="Enable Vulkan backend.")
  parser.add_argument(
      "--ios_simulator", action="store_true",
      help="Building for iOS simulator (uses iphonesimulator SDK)")
  parser.add_argument(
      "--visionos", action="store_true",
      help="Building for visionOS (uses xros SDK instead of iphoneos)")
  args = parser.parse_args()`

	buildDawnConfigure = `if target_os == "Darwin" or target_os == "iOS":
    configure_cmd.append(f"-DCMAKE_OSX_ARCHITECTURES={target_cpu}")

  env = os.environ.copy()`
	buildDawnConfigurePatched = `if target_os == "Darwin" or target_os == "iOS":
    configure_cmd.append(f"-DCMAKE_OSX_ARCHITECTURES={target_cpu}")
    if target_os == "iOS":
      # Get iOS/visionOS SDK settings
      if args.visionos:
        # visionOS: CMake 3.28+ supports CMAKE_SYSTEM_NAME=visionOS
        # We need to override the system name set earlier to use the correct platform
        # Find and replace the CMAKE_SYSTEM_NAME in configure_cmd
        for i, arg in enumerate(configure_cmd):
          if arg.startswith("-DCMAKE_SYSTEM_NAME="):
            configure_cmd[i] = "-DCMAKE_SYSTEM_NAME=visionOS"
            break
        platform_cfgs = get_visionos_settings(target_cpu, is_simulator=args.ios_simulator)
      else:
        # iOS uses iphoneos/iphonesimulator SDK
        platform_cfgs = get_ios_settings(target_cpu, is_simulator=args.ios_simulator)
      configure_cmd += platform_cfgs
      # Disable tint command-line tools for iOS/visionOS (they require MACOSX_BUNDLE config)
      configure_cmd.append("-DTINT_BUILD_CMD_TOOLS=OFF")

  env = os.environ.copy()`

	cmakeOSCPU = `  if os == "mac":
    target_cpu_map = {
      "arm64": "arm64",
      "x64": "x86_64",
    }
    return "Darwin", target_cpu_map[cpu]

  if os == "win":`
	cmakeOSCPUPatched = `  if os == "mac":
    target_cpu_map = {
      "arm64": "arm64",
      "x64": "x86_64",
    }
    return "Darwin", target_cpu_map[cpu]

  if os == "ios":
    # iOS uses the same CPU names as Darwin
    target_cpu_map = {
      "arm64": "arm64",
      "x64": "x86_64",
    }
    return "iOS", target_cpu_map[cpu]

  if os == "win":`

	cmakeWindowsSettings = `def get_windows_settings(args):`
	cmakeIOSSettings = `
def get_ios_settings(target_cpu, is_simulator=False):
  """Get CMake settings for iOS cross-compilation.
     Uses xcrun to find the appropriate iOS SDK.

     Args:
       target_cpu: Target CPU architecture (arm64 or x64)
       is_simulator: If True, use simulator SDK regardless of CPU architecture.
                     This is important on Apple Silicon where arm64 is used for
                     both device and simulator builds.
  """
  ios_cfgs = []

  # Use simulator SDK if explicitly requested, otherwise device SDK
  if is_simulator:
    sdk_name = "iphonesimulator"
  else:
    sdk_name = "iphoneos"

  # Get SDK path using xcrun
  try:
    sdk_path = subprocess.check_output(
        ["xcrun", "--sdk", sdk_name, "--show-sdk-path"],
        text=True
    ).strip()
  except subprocess.CalledProcessError:
    print(f"Error: Could not find iOS SDK for {sdk_name}")
    sys.exit(1)

  ios_cfgs.append(f"-DCMAKE_OSX_SYSROOT={sdk_path}")
  # Dawn uses C++ atomic wait/notify_all which requires iOS 14.0+
  ios_cfgs.append("-DCMAKE_OSX_DEPLOYMENT_TARGET=14.0")

  # Cross-compilation hints for pthreads (built-in on iOS)
  # CMake's FindThreads module can't run test programs when cross-compiling,
  # so we need to provide these hints.
  ios_cfgs.append("-DCMAKE_CROSSCOMPILING=YES")
  # Prevent CMake from trying to run test executables during cross-compilation
  ios_cfgs.append("-DCMAKE_TRY_COMPILE_TARGET_TYPE=STATIC_LIBRARY")
  # Thread library hints - pthreads is built into the system on Apple platforms
  ios_cfgs.append("-DTHREADS_PREFER_PTHREAD_FLAG=ON")
  ios_cfgs.append("-DCMAKE_THREAD_LIBS_INIT=-lpthread")
  ios_cfgs.append("-DCMAKE_HAVE_THREADS_LIBRARY=1")
  ios_cfgs.append("-DCMAKE_USE_PTHREADS_INIT=1")
  ios_cfgs.append("-DCMAKE_HAVE_LIBC_PTHREAD=1")

  return ios_cfgs


def get_visionos_settings(target_cpu, is_simulator=False):
  """Get CMake settings for visionOS cross-compilation.
     Uses xcrun to find the appropriate visionOS SDK.

     Since CMake doesn't natively support visionOS, we use CMAKE_SYSTEM_NAME=iOS
     but override the sysroot and add target flags for visionOS (xros).

     Args:
       target_cpu: Target CPU architecture (arm64)
       is_simulator: If True, use simulator SDK
  """
  visionos_cfgs = []

  # Determine SDK and target suffix
  if is_simulator:
    sdk_name = "xrsimulator"
    target_suffix = "-simulator"
  else:
    sdk_name = "xros"
    target_suffix = ""

  # Get SDK path using xcrun
  try:
    sdk_path = subprocess.check_output(
        ["xcrun", "--sdk", sdk_name, "--show-sdk-path"],
        text=True
    ).strip()
  except subprocess.CalledProcessError:
    print(f"Error: Could not find visionOS SDK for {sdk_name}")
    sys.exit(1)

  visionos_cfgs.append(f"-DCMAKE_OSX_SYSROOT={sdk_path}")
  # visionOS minimum deployment target
  visionos_cfgs.append("-DCMAKE_OSX_DEPLOYMENT_TARGET=1.0")
  # Add target triple flags to ensure correct platform metadata in object files
  # This is critical - without it, object files get iOS platform metadata instead of visionOS
  # Include -w to suppress warnings (normally added elsewhere, but we're overriding FLAGS)
  visionos_cfgs.append(f"-DCMAKE_C_FLAGS=-w -target arm64-apple-xros1.0{target_suffix}")
  visionos_cfgs.append(f"-DCMAKE_CXX_FLAGS=-w -target arm64-apple-xros1.0{target_suffix}")
  visionos_cfgs.append(f"-DCMAKE_ASM_FLAGS=-target arm64-apple-xros1.0{target_suffix}")

  # Cross-compilation hints for pthreads (built-in on visionOS)
  visionos_cfgs.append("-DCMAKE_CROSSCOMPILING=YES")
  # Prevent CMake from trying to run test executables during cross-compilation
  visionos_cfgs.append("-DCMAKE_TRY_COMPILE_TARGET_TYPE=STATIC_LIBRARY")
  # Thread library hints - pthreads is built into the system on Apple platforms
  visionos_cfgs.append("-DTHREADS_PREFER_PTHREAD_FLAG=ON")
  visionos_cfgs.append("-DCMAKE_THREAD_LIBS_INIT=-lpthread")
  visionos_cfgs.append("-DCMAKE_HAVE_THREADS_LIBRARY=1")
  visionos_cfgs.append("-DCMAKE_USE_PTHREADS_INIT=1")
  visionos_cfgs.append("-DCMAKE_HAVE_LIBC_PTHREAD=1")

  return visionos_cfgs


def get_windows_settings(args):`
)
