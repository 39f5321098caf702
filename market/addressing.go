package market

// Family metadata. Every state address of the family starts with
// FamilyPrefix; each ledger object lives whole at one reserved address.
const (
	FamilyName    = "market"
	FamilyVersion = "1.0"
	FamilyPrefix  = "6d2ca0"
)

// Reserved state addresses, one per ledger object.
const (
	StateOrderBook         = "6d2ca0b2545e87511dbd9d616f2383cd94663a0123a7da69c297f0c2a5cead706c547a"
	StateBalanceBook       = "6d2ca0221df1aa49a6e67aef0aa55ecd66b108cc7752e1e7043d2d05bcc8faa544e557"
	StateAuctionList       = "6d2ca0397e9c4300bb7adaf1650ecb87cd2fa14fff8f160cddc80c2f96954da6d4fa9e"
	StateSealedAuctionList = "6d2ca0397e9c4300bb7adaf1650ecb87cd2fa14fff8f160cddc80c2f96954da6d4fa9a"
)

// The voting family publishes the governance result consumed by the
// sealed-auction creation gate.
const (
	VotingPrefix          = "594666"
	StateGovernanceResult = "5946667a4efb824eac8be9da863e7e44ade858f0a3e67c65f48ae90d5c07f614258a00"
)

// AdminPubKey is the well-known administrative public key; its derived
// address seeds the high bidder of a fresh auction.
const AdminPubKey = "03d88919731f4f0e402624c42eb950da2e308e049aeb40b044f7ffb7e07d2b624d"
