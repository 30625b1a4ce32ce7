package domain

// AssetKind distinguishes native ledger balance from fungible token
// accounts. Resolved once per project/vault pair, never re-sniffed per call.
type AssetKind string

// Asset kinds.
const (
	AssetNative   AssetKind = "native"
	AssetFungible AssetKind = "fungible"
)

// Asset identifies what a vault or wallet holds. Mint is empty for native
// assets.
type Asset struct {
	Kind AssetKind
	Mint string
}

// NativeAsset returns the native ledger asset.
func NativeAsset() Asset {
	return Asset{Kind: AssetNative}
}

// FungibleAsset returns a fungible token asset for the given mint.
func FungibleAsset(mint string) Asset {
	return Asset{Kind: AssetFungible, Mint: mint}
}
