package output

import "github.com/tangleforge/ledgerwallet/addr"

// FeatureKind tags a Feature variant.
type FeatureKind uint8

const (
	FeatureSender FeatureKind = iota
	FeatureMetadata
	FeatureTag
	FeatureIssuer
)

// Feature is the tagged sum of §3's feature variants. Sender/Metadata/Tag
// are mutable features; Issuer only ever appears among a chain output's
// immutable features.
type Feature interface {
	FeatureKind() FeatureKind
}

// SenderFeature declares the logical sender of an output; its presence
// pushes a Sender requirement onto the solver queue (§4.C).
type SenderFeature struct {
	Address addr.Address
}

func (SenderFeature) FeatureKind() FeatureKind { return FeatureSender }

// MetadataFeature carries caller-defined opaque bytes.
type MetadataFeature struct {
	Data []byte
}

func (MetadataFeature) FeatureKind() FeatureKind { return FeatureMetadata }

// TagFeature carries a caller-defined indexing tag.
type TagFeature struct {
	Tag []byte
}

func (TagFeature) FeatureKind() FeatureKind { return FeatureTag }

// IssuerFeature declares the address that must authorize the mint of a
// new chain output; its presence on a newly-minted chain pushes an
// Issuer requirement (§4.C).
type IssuerFeature struct {
	Address addr.Address
}

func (IssuerFeature) FeatureKind() FeatureKind { return FeatureIssuer }

func findSender(features []Feature) (addr.Address, bool) {
	for _, f := range features {
		if s, ok := f.(SenderFeature); ok {
			return s.Address, true
		}
	}
	return nil, false
}

func findIssuer(features []Feature) (addr.Address, bool) {
	for _, f := range features {
		if s, ok := f.(IssuerFeature); ok {
			return s.Address, true
		}
	}
	return nil, false
}
