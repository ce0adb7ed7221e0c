package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	rp "github.com/krazyTry/reward-pool-go/reward_pool"
	solanago "github.com/krazyTry/reward-pool-go/solana"
)

// RPCStore reads program accounts from a live cluster. It never writes.
type RPCStore struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

func NewRPCStore(client *rpc.Client, commitment rpc.CommitmentType) *RPCStore {
	return &RPCStore{client: client, commitment: commitment}
}

func (s *RPCStore) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	out, err := solanago.GetAccountInfo(ctx, s.client, s.commitment, address)
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, errors.Wrapf(rp.ErrAccountNotFound, "account %s", address)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get account %s", address)
	}
	return out.GetBinary(), nil
}

// GetMultipleAccounts issues one getMultipleAccounts call per MaxMultipleAccounts addresses.
func (s *RPCStore) GetMultipleAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(addresses))
	for begin := 0; begin < len(addresses); begin += solanago.MaxMultipleAccounts {
		end := min(begin+solanago.MaxMultipleAccounts, len(addresses))
		res, err := solanago.GetMultipleAccountInfo(ctx, s.client, s.commitment, addresses[begin:end])
		if err != nil {
			return nil, errors.Wrap(err, "get multiple accounts")
		}
		for _, v := range res.Value {
			if v == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, v.Data.GetBinary())
		}
	}
	return out, nil
}

func (s *RPCStore) Commit(context.Context, ...Write) error {
	return rp.ErrReadOnly
}

// RPCTokenReader reads SPL token balances of a live cluster. Mutations return ErrReadOnly.
type RPCTokenReader struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

func NewRPCTokenReader(client *rpc.Client, commitment rpc.CommitmentType) *RPCTokenReader {
	return &RPCTokenReader{client: client, commitment: commitment}
}

func (r *RPCTokenReader) CreateMint(context.Context, solana.PublicKey, uint8) error {
	return rp.ErrReadOnly
}

func (r *RPCTokenReader) MintTo(context.Context, solana.PublicKey, solana.PublicKey, uint64) error {
	return rp.ErrReadOnly
}

func (r *RPCTokenReader) TransferBatch(context.Context, ...Transfer) error {
	return rp.ErrReadOnly
}

// Balance reads the owner's associated token account of mint. A missing account holds zero.
func (r *RPCTokenReader) Balance(ctx context.Context, mint, owner solana.PublicKey) (uint64, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0, err
	}
	out, err := solanago.GetAccountInfo(ctx, r.client, r.commitment, ata)
	if errors.Is(err, rpc.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "get token account %s", ata)
	}
	return tokenBalance(ata, mint, out.GetBinary())
}

// tokenBalance decodes a token account of mint. An uninitialized account holds zero.
func tokenBalance(ata, mint solana.PublicKey, data []byte) (uint64, error) {
	account, err := new(solanago.AccountLayout).Decode(ata, data)
	if err != nil {
		return 0, errors.Wrapf(err, "decode token account %s", ata)
	}
	if !account.IsInitialized() {
		return 0, nil
	}
	if account.Mint != mint {
		return 0, errors.Wrapf(rp.ErrInvalidMint, "token account %s holds %s", ata, account.Mint)
	}
	return account.Amount, nil
}

func (r *RPCTokenReader) Decimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	tokens, err := solanago.GetMultipleToken(ctx, r.client, r.commitment, mint)
	if err != nil {
		return 0, errors.Wrapf(err, "get mint %s", mint)
	}
	if len(tokens) == 0 || tokens[0] == nil {
		return 0, errors.Wrapf(rp.ErrInvalidMint, "mint %s", mint)
	}
	return tokens[0].Decimals, nil
}

// Balances lists every non-empty SPL token holding of owner, keyed by mint.
func (r *RPCTokenReader) Balances(ctx context.Context, owner solana.PublicKey) (map[solana.PublicKey]uint64, error) {
	resp, err := r.client.GetTokenAccountsByOwner(ctx, owner, &rpc.GetTokenAccountsConfig{
		ProgramId: &solana.TokenProgramID,
	}, &rpc.GetTokenAccountsOpts{
		Encoding:   solana.EncodingJSONParsed,
		Commitment: r.commitment,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get token accounts of %s", owner)
	}
	return parseTokenHoldings(resp.Value)
}

func parseTokenHoldings(accounts []*rpc.TokenAccount) (map[solana.PublicKey]uint64, error) {
	out := make(map[solana.PublicKey]uint64)
	for _, v := range accounts {
		if v == nil || v.Account.Data == nil {
			continue
		}
		raw := v.Account.Data.GetRawJSON()
		mint := gjson.GetBytes(raw, "parsed.info.mint").String()
		amount := gjson.GetBytes(raw, "parsed.info.tokenAmount.amount").Uint()
		if amount == 0 || mint == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			return nil, errors.Wrapf(err, "token account %s mint", v.Pubkey)
		}
		out[key] += amount
	}
	return out, nil
}
