package main

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/reward-pool-go/internal/config"
	rp "github.com/krazyTry/reward-pool-go/reward_pool"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeErr(t, args...)
	require.NoError(t, err, out)
	return out
}

func executeErr(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(testContext(t))
	return out.String(), err
}

func TestSimulateInMemory(t *testing.T) {
	chdir(t, t.TempDir())
	out := execute(t, "simulate", "--pools", "3", "--stakers", "2", "--log-file", filepath.Join(t.TempDir(), "sim.log"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var stakerLines int
	for _, line := range lines {
		if strings.HasPrefix(line, "staker ") {
			stakerLines++
			// two equal stakers split 3 pools of 100 A and 200 B
			assert.Contains(t, line, "positions 3 harvested A 150 B 300")
		}
	}
	assert.Equal(t, 2, stakerLines)
	assert.Contains(t, out, "operation=harvest result=ok 6")
	assert.Equal(t, 3, strings.Count(out, "rate A 10/s B 20/s"))
}

func TestSimulateRejectsBadInput(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := executeErr(t, "simulate", "--pools", "-1")
	assert.ErrorContains(t, err, "must be positive")
	_, err = executeErr(t, "simulate", "--stakers", "0")
	assert.ErrorContains(t, err, "must be positive")

	// the largest u64 amount funds one pool but not two
	_, err = executeErr(t, "simulate", "--pools", "2", "--amount-a", "18446744073.709551615")
	assert.ErrorIs(t, err, rp.ErrMathOverflow)
}

func TestSimulateOnLevelDBTwice(t *testing.T) {
	chdir(t, t.TempDir())
	dir := filepath.Join(t.TempDir(), "ledger")
	execute(t, "simulate", "--pools", "1", "--stakers", "1", "--ledger", dir)
	out := execute(t, "simulate", "--pools", "1", "--stakers", "1", "--ledger", dir, "--idle-policy", "rollover")
	assert.Contains(t, out, "positions 1 harvested A 100 B 200")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "config.yaml")
	jsonPath := filepath.Join(dir, "config.json")

	execute(t, "config", "new", yamlPath)
	execute(t, "config", "export-json", jsonPath, "--config", yamlPath)

	cfg, err := config.Load(jsonPath, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestPoolSigner(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	pool := solanago.NewWallet().PublicKey()
	cfg := config.Default()
	cfg.Pools = []config.PoolConfig{{Name: "main", Account: pool.String()}}
	require.NoError(t, cfg.Save(path, false))

	out := execute(t, "pool", "signer", "--name", "main", "--config", path)
	signer, nonce, err := rp.DerivePoolSigner(rp.ProgramID, pool)
	require.NoError(t, err)
	assert.Contains(t, out, signer.String())
	assert.Contains(t, out, "nonce "+strconv.Itoa(int(nonce)))
}

func TestPoolSignerFollowsProgramID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	pool, deployment := solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey()
	cfg := config.Default()
	cfg.Programs.RewardPool.ID = deployment.String()
	cfg.Pools = []config.PoolConfig{{Name: "main", Account: pool.String()}}
	require.NoError(t, cfg.Save(path, false))

	out := execute(t, "pool", "signer", "--name", "main", "--config", path)
	signer, _, err := rp.DerivePoolSigner(deployment, pool)
	require.NoError(t, err)
	assert.Contains(t, out, signer.String())

	def, _, err := rp.DerivePoolSigner(rp.ProgramID, pool)
	require.NoError(t, err)
	assert.NotContains(t, out, def.String())
}

func TestWritePool(t *testing.T) {
	var out bytes.Buffer
	addr := solanago.NewWallet().PublicKey()
	writePool(&out, addr, &rp.Pool{TotalStaked: 3, UserStakeCount: 2, RewardRateA: 1_500_000_000, RewardRateB: 25, PeriodFinish: 99}, 9, 1)
	assert.Equal(t, "pool "+addr.String()+" staked 3 users 2 rate A 1.5/s B 2.5/s finish 99\n", out.String())
}
