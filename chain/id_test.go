package chain

import (
	"testing"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func Test_All(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, 12)
	assert.Equal(t, Solana, all[0])
	assert.Equal(t, Ethereum, all[len(all)-1])

	seen := make(map[string]struct{}, len(all))
	for _, id := range all {
		require.True(t, id.Valid(), id)
		require.NotEmpty(t, id.Family(), id)
		_, dup := seen[id.Name()]
		require.False(t, dup, "duplicate name %s", id.Name())
		seen[id.Name()] = struct{}{}
	}
}

func Test_ID_zeroValueIsInvalid(t *testing.T) {
	t.Parallel()

	var id ID
	assert.False(t, id.Valid())
	assert.Empty(t, id.Name())
	assert.Empty(t, id.Family())
	assert.Equal(t, "chain(0)", id.String())
	assert.Equal(t, "chain(200)", ID(200).String())

	_, err := id.MarshalText()
	require.ErrorIs(t, err, ErrUnknownChain)
}

func Test_ID_Family(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id           ID
		wantFamily   string
		wantSelector uint64
	}{
		{id: Solana, wantFamily: chainsel.FamilySolana, wantSelector: chainsel.SOLANA_MAINNET.Selector},
		{id: Ethereum, wantFamily: chainsel.FamilyEVM, wantSelector: chainsel.ETHEREUM_MAINNET.Selector},
		{id: BNBChain, wantFamily: chainsel.FamilyEVM, wantSelector: chainsel.BINANCE_SMART_CHAIN_MAINNET.Selector},
		{id: Aptos, wantFamily: chainsel.FamilyAptos, wantSelector: chainsel.APTOS_MAINNET.Selector},
		{id: Near, wantFamily: FamilyNear},
		{id: Cosmos, wantFamily: FamilyCosmos},
		{id: Algorand, wantFamily: FamilyAlgorand},
	}

	for _, tt := range tests {
		t.Run(tt.id.Name(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantFamily, tt.id.Family())
			assert.Equal(t, tt.wantSelector, tt.id.Selector())
		})
	}
}

func Test_ParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give    string
		want    ID
		wantErr string
	}{
		{give: "solana", want: Solana},
		{give: " Tron ", want: Tron},
		{give: "BNB Chain", want: BNBChain},
		{give: "bnb", want: BNBChain},
		{give: "cosmos hub", want: Cosmos},
		{give: "dogecoin", wantErr: `unknown chain: "dogecoin"`},
		{give: "", wantErr: "unknown chain"},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			got, err := ParseID(tt.give)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				require.ErrorIs(t, err, ErrUnknownChain)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ID_yaml(t *testing.T) {
	t.Parallel()

	var doc struct {
		Chains []ID `yaml:"chains"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("chains: [sui, ton, ethereum]"), &doc))
	assert.Equal(t, []ID{Sui, Ton, Ethereum}, doc.Chains)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- sui")

	err = yaml.Unmarshal([]byte("chains: [bitcoin]"), &doc)
	require.ErrorIs(t, err, ErrUnknownChain)
}

func Test_Active(t *testing.T) {
	t.Parallel()

	active := Active(Near, Cardano)
	assert.Len(t, active, len(All())-2)
	assert.NotContains(t, active, Near)
	assert.NotContains(t, active, Cardano)

	// Disabling a chain does not remove it from the supported set.
	assert.True(t, Near.Valid())
	assert.Equal(t, All(), Active())
}

func Test_ID_SelectorName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, chainsel.ETHEREUM_MAINNET.Name, Ethereum.SelectorName())
	assert.Equal(t, chainsel.SOLANA_MAINNET.Name, Solana.SelectorName())
	assert.Empty(t, Near.SelectorName())
	assert.Empty(t, ID(0).SelectorName())
}
