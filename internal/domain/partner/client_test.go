package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults to pending KYC with both documents required", func(t *testing.T) {
		c, err := NewClient("cli-1", "Innovate Solutions Pty Ltd", "contact@innovatesol.co.za", "45 Tech Park, Cape Town", decimal.NewFromInt(750))
		require.NoError(t, err)
		assert.Equal(t, KycStatusPending, c.KycStatus)
		assert.Equal(t, []RequiredDoc{DocID, DocProofOfAddress}, c.RequiredDocs)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClientCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("requires name and email", func(t *testing.T) {
		_, err := NewClient("cli-2", "", "a@b.co", "", decimal.Zero)
		assert.Error(t, err)
		_, err = NewClient("cli-2", "Acme", "", "", decimal.Zero)
		assert.Error(t, err)
		_, err = NewClient("cli-2", "Acme", "not-an-email", "", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewClient("cli-2", "Acme", "a@acme.com", "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("default docs are not shared between clients", func(t *testing.T) {
		a, err := NewClient("a", "A", "a@a.com", "", decimal.Zero)
		require.NoError(t, err)
		b, err := NewClient("b", "B", "b@b.com", "", decimal.Zero)
		require.NoError(t, err)
		a.RequiredDocs[0] = "changed"
		assert.Equal(t, DocID, b.RequiredDocs[0])
		assert.Equal(t, DocID, DefaultRequiredDocs[0])
	})
}

func TestClient_SnapshotIsIndependent(t *testing.T) {
	c, err := NewClient("cli-1", "Innovate Solutions", "contact@innovatesol.co.za", "Cape Town", decimal.NewFromInt(750))
	require.NoError(t, err)

	snap := c.Snapshot()
	require.NoError(t, c.Update("Innovate Holdings", "billing@innovate.co.za", "Durban", decimal.NewFromInt(900)))

	assert.Equal(t, "Innovate Solutions", snap.Name)
	assert.Equal(t, "contact@innovatesol.co.za", snap.Email)
	assert.True(t, snap.HourlyRate.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, "Innovate Holdings", c.Name)
}

func TestClient_SetKycStatus(t *testing.T) {
	c, err := NewClient("cli-2", "Gauteng Logistics", "accounts@gautenglogistics.com", "", decimal.Zero)
	require.NoError(t, err)
	c.ClearDomainEvents()

	require.NoError(t, c.SetKycStatus(KycStatusApproved))
	assert.Equal(t, KycStatusApproved, c.KycStatus)
	assert.Empty(t, c.RequiredDocs)
	require.Len(t, c.GetDomainEvents(), 1)

	assert.Error(t, c.SetKycStatus("Unknown"))
}

func TestClient_SubmitKycDocuments(t *testing.T) {
	c, err := NewClient("cli-2", "Gauteng Logistics", "accounts@gautenglogistics.com", "", decimal.Zero)
	require.NoError(t, err)

	c.SubmitKycDocuments()
	assert.Equal(t, KycStatusSubmitted, c.KycStatus)

	require.NoError(t, c.SetKycStatus(KycStatusApproved))
	c.SubmitKycDocuments()
	assert.Equal(t, KycStatusApproved, c.KycStatus)
}

func TestClientSnapshot_NameParts(t *testing.T) {
	s := ClientSnapshot{Name: "Innovate Solutions Pty Ltd"}
	assert.Equal(t, "Innovate", s.FirstName())
	assert.Equal(t, "Solutions Pty Ltd", s.LastName())

	single := ClientSnapshot{Name: "Acme"}
	assert.Equal(t, "Acme", single.FirstName())
	assert.Equal(t, "", single.LastName())
}
