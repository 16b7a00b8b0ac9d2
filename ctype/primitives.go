package ctype

// khronosTypes are the fixed-width khrplatform.h typedefs. They map the same
// way in both tables since their widths do not depend on the host ABI.
var khronosTypes = map[string]string{
	"khronos_int8_t":    "int8",
	"khronos_uint8_t":   "uint8",
	"khronos_int16_t":   "int16",
	"khronos_uint16_t":  "uint16",
	"khronos_int32_t":   "int32",
	"khronos_uint32_t":  "uint32",
	"khronos_int64_t":   "int64",
	"khronos_uint64_t":  "uint64",
	"khronos_intptr_t":  "int",
	"khronos_uintptr_t": "uintptr",
	"khronos_ssize_t":   "int",
	"khronos_usize_t":   "uintptr",
	"khronos_size_t":    "uintptr",
	"khronos_float_t":   "float32",
}

// hostTypes follows the host C ABI through cgo, so the widths of long and
// friends always match what the driver was compiled with.
var hostTypes = map[string]string{
	"char":           "C.char",
	"signed char":    "C.schar",
	"unsigned char":  "C.uchar",
	"short":          "C.short",
	"unsigned short": "C.ushort",
	"int":            "C.int",
	"unsigned int":   "C.uint",
	"long":           "C.long",
	"unsigned long":  "C.ulong",
	"float":          "C.float",
	"double":         "C.double",
	"ptrdiff_t":      "C.ptrdiff_t",
	"intptr_t":       "C.intptr_t",
	"size_t":         "C.size_t",
	"ssize_t":        "C.ssize_t",
	"int8_t":         "C.int8_t",
	"uint8_t":        "C.uint8_t",
	"int16_t":        "C.int16_t",
	"uint16_t":       "C.uint16_t",
	"int32_t":        "C.int32_t",
	"uint32_t":       "C.uint32_t",
	"int64_t":        "C.int64_t",
	"uint64_t":       "C.uint64_t",
}

// portableTypes needs nothing but the Go toolchain. long is 32 bits here,
// which matches Windows and every 32-bit target but not LP64 unix; only a
// handful of legacy entry points take a long.
var portableTypes = map[string]string{
	"char":           "byte",
	"signed char":    "int8",
	"unsigned char":  "uint8",
	"short":          "int16",
	"unsigned short": "uint16",
	"int":            "int32",
	"unsigned int":   "uint32",
	"long":           "int32",
	"unsigned long":  "uint32",
	"float":          "float32",
	"double":         "float64",
	"ptrdiff_t":      "int",
	"intptr_t":       "int",
	"size_t":         "uintptr",
	"ssize_t":        "int",
	"int8_t":         "int8",
	"uint8_t":        "uint8",
	"int16_t":        "int16",
	"uint16_t":       "uint16",
	"int32_t":        "int32",
	"uint32_t":       "uint32",
	"int64_t":        "int64",
	"uint64_t":       "uint64",
}

// Primitives returns a copy of the primitive table for the selected variant.
func Primitives(withoutCgo bool) map[string]string {
	table := hostTypes
	if withoutCgo {
		table = portableTypes
	}
	out := make(map[string]string, len(table)+len(khronosTypes))
	for k, v := range table {
		out[k] = v
	}
	for k, v := range khronosTypes {
		out[k] = v
	}
	return out
}
