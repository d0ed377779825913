package binformat

// PackageObjectIndexVariant is the 2-bit tag packed into the top of a
// PackageObjectIndex.
type PackageObjectIndexVariant uint8

const (
	PackageObjectIndexExport PackageObjectIndexVariant = iota
	PackageObjectIndexScriptImport
	PackageObjectIndexPackageImport
	PackageObjectIndexEmpty
)

// PackageObjectIndex is the 64-bit identity used by StoreEntry import
// lists: the high 2 bits hold a variant tag, the low 62 bits hold a
// truncated CityHash64 of the referenced name. The Empty variant
// serializes as all-ones regardless of name.
type PackageObjectIndex uint64

const packageObjectIndexEmptyValue PackageObjectIndex = ^PackageObjectIndex(0)

// NewPackageObjectIndex builds a PackageObjectIndex for name under the
// given variant. The Empty variant ignores name and always returns the
// all-ones sentinel.
func NewPackageObjectIndex(variant PackageObjectIndexVariant, name string) PackageObjectIndex {
	if variant == PackageObjectIndexEmpty {
		return packageObjectIndexEmptyValue
	}
	hash := NameHash(name) & ((1 << 62) - 1)
	return PackageObjectIndex(uint64(variant)<<62 | hash)
}

// Variant extracts the 2-bit variant tag.
func (p PackageObjectIndex) Variant() PackageObjectIndexVariant {
	return PackageObjectIndexVariant(uint64(p) >> 62)
}

// IsEmpty reports whether p is the all-ones Empty sentinel.
func (p PackageObjectIndex) IsEmpty() bool {
	return p == packageObjectIndexEmptyValue
}
