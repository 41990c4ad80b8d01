package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/tests/testutil"
)

func TestParseAccountRef(t *testing.T) {
	ref, err := domain.ParseAccountRef(" " + testutil.Mint + " ")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountRef(testutil.Mint), ref)

	for _, bad := range []string{"", "0OIl", "abc", testutil.Mint + "11"} {
		_, err := domain.ParseAccountRef(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidAccount, "input %q", bad)
	}
}

func TestParsePrincipal(t *testing.T) {
	p, err := domain.ParsePrincipal(testutil.Authority.String())
	require.NoError(t, err)
	assert.Equal(t, testutil.Authority, p)

	_, err = domain.ParsePrincipal("not-a-key")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewAccountRef(t *testing.T) {
	a, err := domain.NewAccountRef()
	require.NoError(t, err)

	b, err := domain.NewAccountRef()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	_, err = domain.ParseAccountRef(a.String())
	assert.NoError(t, err)
}

func TestTransferRequestValidate(t *testing.T) {
	req := testutil.Request(100)
	assert.NoError(t, req.Validate())

	same := req
	same.Recipient = same.Source
	assert.ErrorIs(t, same.Validate(), domain.ErrInvalidAccount)

	feeIsRecipient := req
	feeIsRecipient.FeeCollector = feeIsRecipient.Recipient
	assert.ErrorIs(t, feeIsRecipient.Validate(), domain.ErrInvalidAccount)
}

func TestTransferContextBind(t *testing.T) {
	bound := domain.TransferContext{
		Source:       testutil.Source,
		Recipient:    testutil.Recipient,
		FeeCollector: testutil.FeeCollector,
		Authority:    testutil.Authority,
	}

	assert.Equal(t, testutil.Request(42), bound.Bind(42))
}
