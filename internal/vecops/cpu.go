package vecops

import "golang.org/x/sys/cpu"

// Features reports the SIMD capabilities of the host CPU for diagnostics.
// Detection is free on unsupported architectures: the flags simply read false.
func Features() []string {
	var out []string
	if cpu.X86.HasSSE42 {
		out = append(out, "sse4.2")
	}
	if cpu.X86.HasAVX {
		out = append(out, "avx")
	}
	if cpu.X86.HasAVX2 {
		out = append(out, "avx2")
	}
	if cpu.X86.HasFMA {
		out = append(out, "fma")
	}
	if cpu.X86.HasAVX512F {
		out = append(out, "avx512f")
	}
	if cpu.ARM64.HasASIMD {
		out = append(out, "asimd")
	}
	if cpu.ARM64.HasSVE {
		out = append(out, "sve")
	}
	if len(out) == 0 {
		out = append(out, "none")
	}
	return out
}
