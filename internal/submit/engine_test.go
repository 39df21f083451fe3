package submit

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkarpin/dcabot/internal/apperrors"
	"github.com/mkarpin/dcabot/internal/infra/chain/mock"
	"github.com/mkarpin/dcabot/internal/wallet"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var chainID = big.NewInt(42161)

func newTestEngine(t *testing.T, chainClient *mock.MockClient) (*Engine, *wallet.Signer) {
	t.Helper()
	signer, err := wallet.NewSigner(testKey, chainID)
	require.NoError(t, err)
	return NewEngine(chainClient, signer, 10*time.Millisecond, zerolog.New(nil).Level(zerolog.Disabled)), signer
}

func testEnvelope() *Envelope {
	return &Envelope{
		To:                   common.HexToAddress("0x216b4b4ba9f3e719726886d34a177484278bfcae"),
		Data:                 []byte{0xde, 0xad},
		Value:                big.NewInt(0),
		GasLimit:             350000,
		MaxFeePerGas:         big.NewInt(200),
		MaxPriorityFeePerGas: big.NewInt(5),
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chainClient := mock.NewMockClient(ctrl)
		engine, signer := newTestEngine(t, chainClient)

		chainClient.EXPECT().PendingNonce(gomock.Any(), signer.Address()).Return(uint64(9), nil)
		chainClient.EXPECT().ChainID().Return(chainID)

		var sentHash common.Hash
		chainClient.EXPECT().
			SendTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
				require.Equal(t, uint64(9), tx.Nonce())
				require.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
				sentHash = tx.Hash()
				return nil
			})
		chainClient.EXPECT().
			TransactionReceipt(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, h common.Hash) (*types.Receipt, error) {
				require.Equal(t, sentHash, h)
				return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(123)}, nil
			})

		receipt, err := engine.Submit(context.Background(), testEnvelope())
		require.NoError(t, err)
		require.Equal(t, uint64(123), receipt.BlockNumber)
		require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		require.Equal(t, sentHash, receipt.TxHash)
	})

	t.Run("broadcast failure is SubmissionFailed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chainClient := mock.NewMockClient(ctrl)
		engine, _ := newTestEngine(t, chainClient)

		chainClient.EXPECT().PendingNonce(gomock.Any(), gomock.Any()).Return(uint64(9), nil)
		chainClient.EXPECT().ChainID().Return(chainID)
		chainClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(errors.New("node unreachable"))

		_, err := engine.Submit(context.Background(), testEnvelope())
		require.True(t, errors.Is(err, apperrors.ErrSubmissionFailed))
		require.False(t, errors.Is(err, apperrors.ErrOnChainRevert))
	})

	t.Run("mined with failure status is OnChainRevert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chainClient := mock.NewMockClient(ctrl)
		engine, _ := newTestEngine(t, chainClient)

		chainClient.EXPECT().PendingNonce(gomock.Any(), gomock.Any()).Return(uint64(9), nil)
		chainClient.EXPECT().ChainID().Return(chainID)
		chainClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil)
		chainClient.EXPECT().
			TransactionReceipt(gomock.Any(), gomock.Any()).
			Return(&types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(124)}, nil)

		_, err := engine.Submit(context.Background(), testEnvelope())
		require.True(t, errors.Is(err, apperrors.ErrOnChainRevert))
		require.False(t, errors.Is(err, apperrors.ErrSubmissionFailed))
	})

	t.Run("context expiry during confirmation wait", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chainClient := mock.NewMockClient(ctrl)
		engine, _ := newTestEngine(t, chainClient)

		chainClient.EXPECT().PendingNonce(gomock.Any(), gomock.Any()).Return(uint64(9), nil)
		chainClient.EXPECT().ChainID().Return(chainID)
		chainClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(nil)
		chainClient.EXPECT().
			TransactionReceipt(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("not found")).
			AnyTimes()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := engine.Submit(ctx, testEnvelope())
		require.True(t, errors.Is(err, apperrors.ErrSubmissionFailed))
	})

	t.Run("legacy envelope uses gas price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		chainClient := mock.NewMockClient(ctrl)
		engine, _ := newTestEngine(t, chainClient)

		env := testEnvelope()
		env.Legacy = true
		env.GasPrice = big.NewInt(100)

		chainClient.EXPECT().PendingNonce(gomock.Any(), gomock.Any()).Return(uint64(0), nil)
		chainClient.EXPECT().
			SendTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *types.Transaction) error {
				require.Equal(t, uint8(types.LegacyTxType), tx.Type())
				require.Equal(t, big.NewInt(100), tx.GasPrice())
				return nil
			})
		chainClient.EXPECT().
			TransactionReceipt(gomock.Any(), gomock.Any()).
			Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil)

		_, err := engine.Submit(context.Background(), env)
		require.NoError(t, err)
	})
}
