package signal

const (
	// EventChainSwitched is triggered when a dApp's active chain changes.
	EventChainSwitched = "provider.chainSwitched"

	// EventChainAdded is triggered when wallet_addEthereumChain registers a
	// new network.
	EventChainAdded = "provider.chainAdded"

	// EventSessionRequested is triggered when a dApp asks for accounts and
	// needs user approval.
	EventSessionRequested = "provider.sessionRequested"

	// EventSessionGranted is triggered when the user approves a dApp session.
	EventSessionGranted = "provider.sessionGranted"

	// EventSessionRevoked is triggered when a dApp session is removed.
	EventSessionRevoked = "provider.sessionRevoked"
)

// DApp identifies the requesting dApp in provider signals.
type DApp struct {
	Origin  string `json:"origin"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
}

type ChainSwitchedSignal struct {
	DApp
	ChainID string `json:"chainId"`
}

type ChainAddedSignal struct {
	ChainID   string `json:"chainId"`
	ChainName string `json:"chainName"`
}

type SessionRequestedSignal struct {
	DApp
	RequestID string `json:"requestId"`
}

type SessionGrantedSignal struct {
	DApp
	Account string `json:"account"`
	ChainID string `json:"chainId"`
}

type SessionRevokedSignal struct {
	DApp
}

func SendChainSwitched(dApp DApp, chainID string) {
	send(EventChainSwitched, ChainSwitchedSignal{DApp: dApp, ChainID: chainID})
}

func SendChainAdded(chainID, chainName string) {
	send(EventChainAdded, ChainAddedSignal{ChainID: chainID, ChainName: chainName})
}

func SendSessionRequested(dApp DApp, requestID string) {
	send(EventSessionRequested, SessionRequestedSignal{DApp: dApp, RequestID: requestID})
}

func SendSessionGranted(dApp DApp, account, chainID string) {
	send(EventSessionGranted, SessionGrantedSignal{DApp: dApp, Account: account, ChainID: chainID})
}

func SendSessionRevoked(dApp DApp) {
	send(EventSessionRevoked, SessionRevokedSignal{DApp: dApp})
}
