package reward_pool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/reward-pool-go/u128"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func TestPoolEncodeDecode(t *testing.T) {
	pool := &Pool{
		Authority:             newKey(),
		PoolSigner:            newKey(),
		Nonce:                 254,
		StakingMint:           newKey(),
		RewardAMint:           newKey(),
		RewardBMint:           newKey(),
		RewardAmountA:         100_000_000_000,
		RewardAmountB:         200_000_000_000,
		RewardDuration:        10,
		RewardRateA:           10_000_000_000,
		RewardRateB:           20_000_000_000,
		LastUpdateTime:        1_700_000_000,
		PeriodFinish:          1_700_000_010,
		RewardPerTokenStoredA: u128.GenUint128FromString("340282366920938463463374607431768211455"),
		RewardPerTokenStoredB: u128.GenUint128FromString("12345678901234567890123"),
		TotalStaked:           5_000_000_000,
		TotalFundedA:          100_000_000_000,
		TotalFundedB:          200_000_000_000,
		UserStakeCount:        3,
	}

	data, err := pool.Marshal()
	require.NoError(t, err)
	assert.Len(t, data, PoolSize)

	decoded, err := ParseAccount_Pool(data)
	require.NoError(t, err)
	assert.Equal(t, pool, decoded)
}

func TestUserEncodeDecode(t *testing.T) {
	user := &User{
		Pool:                newKey(),
		Owner:               newKey(),
		BalanceStaked:       42,
		RewardPerTokenPaidA: u128.GenUint128FromString("1000000000000"),
		RewardPerTokenPaidB: u128.Zero(),
		RewardsOwedA:        7,
		RewardsOwedB:        9,
		Nonce:               253,
	}
	data, err := user.Marshal()
	require.NoError(t, err)
	assert.Len(t, data, UserSize)
	assert.Equal(t, UserDiscriminator[:], data[:DiscriminatorSize])

	decoded, err := ParseAccount_User(data)
	require.NoError(t, err)
	assert.Equal(t, user, decoded)
}

func TestParseAnyAccount(t *testing.T) {
	cfg := &ProgramConfig{AuthorityMint: newKey(), Bump: 255}
	cfgData, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Len(t, cfgData, ProgramConfigSize)

	userData, err := (&User{Pool: newKey(), Owner: newKey()}).Marshal()
	require.NoError(t, err)

	obj, err := ParseAnyAccount(cfgData)
	require.NoError(t, err)
	assert.IsType(t, &ProgramConfig{}, obj)

	obj, err = ParseAnyAccount(userData)
	require.NoError(t, err)
	assert.IsType(t, &User{}, obj)

	_, err = ParseAnyAccount([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = ParseAccount_Pool(userData)
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestTruncatedAccount(t *testing.T) {
	data, err := (&User{Pool: newKey(), Owner: newKey()}).Marshal()
	require.NoError(t, err)
	_, err = ParseAccount_User(data[:UserSize-10])
	assert.Error(t, err)
}

func TestDeriveUserAddress(t *testing.T) {
	wallet, pool := newKey(), newKey()

	a1, bump1, err := DeriveUserAddress(ProgramID, wallet, pool)
	require.NoError(t, err)
	a2, bump2, err := DeriveUserAddress(ProgramID, wallet, pool)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, bump1, bump2)

	other, _, err := DeriveUserAddress(ProgramID, wallet, newKey())
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)

	swapped, _, err := DeriveUserAddress(ProgramID, pool, wallet)
	require.NoError(t, err)
	assert.NotEqual(t, a1, swapped)

	pools := []solana.PublicKey{pool, newKey(), newKey()}
	addrs, err := DeriveUserAddresses(ProgramID, wallet, pools)
	require.NoError(t, err)
	require.Len(t, addrs, 3)
	assert.Equal(t, a1, addrs[0])
}

func TestDeriveDependsOnProgram(t *testing.T) {
	wallet, pool, deployment := newKey(), newKey(), newKey()

	def, _, err := DeriveUserAddress(ProgramID, wallet, pool)
	require.NoError(t, err)
	alt, _, err := DeriveUserAddress(deployment, wallet, pool)
	require.NoError(t, err)
	assert.NotEqual(t, def, alt)

	defSigner, _, err := DerivePoolSigner(ProgramID, pool)
	require.NoError(t, err)
	altSigner, _, err := DerivePoolSigner(deployment, pool)
	require.NoError(t, err)
	assert.NotEqual(t, defSigner, altSigner)

	defCfg, _, err := DeriveProgramConfigAddress(ProgramID)
	require.NoError(t, err)
	altCfg, _, err := DeriveProgramConfigAddress(deployment)
	require.NoError(t, err)
	assert.NotEqual(t, defCfg, altCfg)
}

func TestProgramErrorMatching(t *testing.T) {
	err := error(&ProgramError{Code: ErrorCodeUnauthorized, Name: "Unauthorized", Msg: "custom"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrInvalidAmount)

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrorCodeUnauthorized, code)
}
