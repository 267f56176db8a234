package chain

import (
	"errors"
	"fmt"
	"strings"

	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/utils"
)

// ErrUnknownChain is returned by ParseID when the name does not match any supported chain.
var ErrUnknownChain = errors.New("unknown chain")

// Chain families. Families already known to chain-selectors reuse its constants.
const (
	FamilyEVM      = chainsel.FamilyEVM
	FamilySolana   = chainsel.FamilySolana
	FamilyAptos    = chainsel.FamilyAptos
	FamilySui      = chainsel.FamilySui
	FamilyTon      = chainsel.FamilyTon
	FamilyTron     = chainsel.FamilyTron
	FamilyStellar  = chainsel.FamilyStellar
	FamilyCosmos   = "cosmos"
	FamilyNear     = "near"
	FamilyCardano  = "cardano"
	FamilyAlgorand = "algorand"
)

// ID identifies a supported blockchain network. The set is closed: every value the wallet can
// route to is declared below, and the zero value is not a valid chain.
type ID uint8

const (
	Solana ID = iota + 1
	Aptos
	Stellar
	Sui
	Tron
	Cosmos
	Near
	Ton
	Cardano
	Algorand
	BNBChain
	Ethereum
)

type idInfo struct {
	name     string
	display  string
	family   string
	selector uint64
}

var idInfos = map[ID]idInfo{
	Solana:   {name: "solana", display: "Solana", family: FamilySolana, selector: chainsel.SOLANA_MAINNET.Selector},
	Aptos:    {name: "aptos", display: "Aptos", family: FamilyAptos, selector: chainsel.APTOS_MAINNET.Selector},
	Stellar:  {name: "stellar", display: "Stellar", family: FamilyStellar},
	Sui:      {name: "sui", display: "Sui", family: FamilySui, selector: chainsel.SUI_MAINNET.Selector},
	Tron:     {name: "tron", display: "Tron", family: FamilyTron, selector: chainsel.TRON_MAINNET.Selector},
	Cosmos:   {name: "cosmos", display: "Cosmos Hub", family: FamilyCosmos},
	Near:     {name: "near", display: "NEAR", family: FamilyNear},
	Ton:      {name: "ton", display: "TON", family: FamilyTon, selector: chainsel.TON_MAINNET.Selector},
	Cardano:  {name: "cardano", display: "Cardano", family: FamilyCardano},
	Algorand: {name: "algorand", display: "Algorand", family: FamilyAlgorand},
	BNBChain: {name: "bnb", display: "BNB Chain", family: FamilyEVM, selector: chainsel.BINANCE_SMART_CHAIN_MAINNET.Selector},
	Ethereum: {name: "ethereum", display: "Ethereum", family: FamilyEVM, selector: chainsel.ETHEREUM_MAINNET.Selector},
}

// All returns every supported chain in declaration order.
func All() []ID {
	ids := make([]ID, 0, len(idInfos))
	for id := Solana; id <= Ethereum; id++ {
		ids = append(ids, id)
	}

	return ids
}

// Valid reports whether id is a member of the supported set.
func (id ID) Valid() bool {
	_, ok := idInfos[id]
	return ok
}

// Name returns the lower case identifier used in configuration and on the command line.
func (id ID) Name() string {
	if info, ok := idInfos[id]; ok {
		return info.name
	}

	return ""
}

// DisplayName returns the human readable chain name.
func (id ID) DisplayName() string {
	if info, ok := idInfos[id]; ok {
		return info.display
	}

	return ""
}

// Family returns the chain family, e.g. FamilyEVM for both Ethereum and BNBChain.
func (id ID) Family() string {
	if info, ok := idInfos[id]; ok {
		return info.family
	}

	return ""
}

// Selector returns the chain-selectors selector of the mainnet network, or 0 when the chain is
// not tracked by chain-selectors.
func (id ID) Selector() uint64 {
	return idInfos[id].selector
}

// SelectorName returns the chain-selectors name of the mainnet network, e.g. "solana-mainnet",
// or an empty string when the chain is not tracked by chain-selectors.
func (id ID) SelectorName() string {
	sel := id.Selector()
	if sel == 0 {
		return ""
	}

	info, err := utils.ChainInfo(sel)
	if err != nil {
		return ""
	}

	return info.ChainName
}

// String returns "<name>" for supported chains and "chain(<n>)" otherwise.
func (id ID) String() string {
	if info, ok := idInfos[id]; ok {
		return info.name
	}

	return fmt.Sprintf("chain(%d)", uint8(id))
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, uint8(id))
	}

	return []byte(id.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so IDs can be read from YAML and env config.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed

	return nil
}

// ParseID returns the ID with the given name. Matching is case insensitive and accepts the
// display name as well as the short name.
func ParseID(name string) (ID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, id := range All() {
		info := idInfos[id]
		if n == info.name || n == strings.ToLower(info.display) {
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownChain, name)
}

// Active returns the supported chains minus the disabled ones, in declaration order.
func Active(disabled ...ID) []ID {
	skip := make(map[ID]struct{}, len(disabled))
	for _, id := range disabled {
		skip[id] = struct{}{}
	}

	active := make([]ID, 0, len(idInfos))
	for _, id := range All() {
		if _, ok := skip[id]; ok {
			continue
		}
		active = append(active, id)
	}

	return active
}
