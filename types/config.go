package types

type (
	Config struct {
		Type                int
		Name                string
		RPC                 string
		WSRPC               string
		NativeTokenSymbol   string
		NativeTokenDecimals uint8

		WatchBlockHash bool

		// ServicePrivateKey funds and co-signs mint transactions.
		ServicePrivateKey string

		// SkipSignatureVerify disables ownership verification. Test
		// deployments only; never derived from request contents.
		SkipSignatureVerify bool

		ImageAPIURL       string
		ImageAPIKey       string
		ImagePollAttempts int

		// ContentBaseURL prefixes stored content identifiers to form
		// the URI written into NFT metadata.
		ContentBaseURL string
	}
)
