package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/outvoice/backend/internal/domain/partner"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/persistence/memory"
	"github.com/outvoice/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

// presigningStorage hands out fake links for stored keys
type presigningStorage struct {
	*storage.MemoryStorage
}

func (presigningStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://files.example.test/" + key, fixedNow.Add(expiresIn), nil
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func newFileService(t *testing.T, objects storage.ObjectStorage) (*FileService, *memory.State) {
	t.Helper()
	state := memory.NewState()
	client, err := partner.NewClient("cli-1", "Thabo Mokoena", "thabo@example.co.za", "", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, state.Clients.Save(context.Background(), client))

	svc := NewFileService(state.Files, state.Clients, objects)
	svc.now = func() time.Time { return fixedNow }
	return svc, state
}

func TestFileService_UploadAndDownload(t *testing.T) {
	ctx := context.Background()
	objects := storage.NewMemoryStorage()
	svc, _ := newFileService(t, objects)

	resp, err := svc.Upload(ctx, UploadFileRequest{
		ClientID: "cli-1",
		FileName: "contract.txt",
		Tag:      "Contract",
		Data:     []byte("signed on the dotted line"),
	})
	require.NoError(t, err)
	assert.Equal(t, "contract.txt", resp.Name)
	assert.Equal(t, "Contract", resp.Tag)
	assert.Equal(t, int64(25), resp.Size)
	assert.Equal(t, "2024-06-15", resp.UploadDate.String())
	assert.Contains(t, resp.Type, "text/plain")
	assert.Equal(t, 1, objects.Len())

	content, err := svc.Download(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "contract.txt", content.Name)
	assert.Equal(t, []byte("signed on the dotted line"), content.Data)

	files, err := svc.List(ctx, "cli-1")
	require.NoError(t, err)
	assert.Len(t, files, 1)
	files, err = svc.List(ctx, "cli-2")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileService_UploadValidation(t *testing.T) {
	ctx := context.Background()
	svc, state := newFileService(t, storage.NewMemoryStorage())

	_, err := svc.Upload(ctx, UploadFileRequest{ClientID: "cli-404", FileName: "a.pdf", Data: []byte("x")})
	assertCode(t, err, "INVALID_CLIENT")

	_, err = svc.Upload(ctx, UploadFileRequest{ClientID: "cli-1", FileName: "a.pdf", Tag: "Secret", Data: []byte("x")})
	assertCode(t, err, "INVALID_TAG")

	assert.Equal(t, 0, state.Files.Len())
}

func TestFileService_KycUploadSubmitsReview(t *testing.T) {
	ctx := context.Background()
	svc, state := newFileService(t, storage.NewMemoryStorage())

	resp, err := svc.Upload(ctx, UploadFileRequest{ClientID: "cli-1", FileName: "id.pdf", Tag: "KYC", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", resp.Type)

	client, err := state.Clients.FindByID(ctx, "cli-1")
	require.NoError(t, err)
	assert.Equal(t, partner.KycStatusSubmitted, client.KycStatus)
}

func TestFileService_DownloadLink(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported backend", func(t *testing.T) {
		svc, _ := newFileService(t, storage.NewMemoryStorage())
		resp, err := svc.Upload(ctx, UploadFileRequest{ClientID: "cli-1", FileName: "a.txt", Data: []byte("a")})
		require.NoError(t, err)
		_, err = svc.DownloadLink(ctx, resp.ID)
		assertCode(t, err, "DOWNLOAD_LINK_UNAVAILABLE")
	})

	t.Run("presigned", func(t *testing.T) {
		svc, _ := newFileService(t, presigningStorage{storage.NewMemoryStorage()})
		svc.SetLinkTTL(5 * time.Minute)
		resp, err := svc.Upload(ctx, UploadFileRequest{ClientID: "cli-1", FileName: "a.txt", Data: []byte("a")})
		require.NoError(t, err)

		link, err := svc.DownloadLink(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://files.example.test/files/cli-1/"+resp.ID+"/a.txt", link.URL)
		assert.Equal(t, fixedNow.Add(5*time.Minute), link.ExpiresAt)
	})

	t.Run("unknown file", func(t *testing.T) {
		svc, _ := newFileService(t, presigningStorage{storage.NewMemoryStorage()})
		_, err := svc.DownloadLink(ctx, "file-404")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestFormService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	state := memory.NewState()
	svc := NewFormService(state.Forms, state.Submissions)
	svc.now = func() time.Time { return fixedNow }

	form, err := svc.Create(ctx, SaveFormRequest{
		Title: "Client intake",
		Fields: []FormFieldInput{
			{ID: "company", Label: "Company name", Required: true},
			{ID: "notes", Label: "Anything else?", Type: "textarea"},
		},
	})
	require.NoError(t, err)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "text", form.Fields[0].Type)

	_, err = svc.Submit(ctx, form.ID, SubmitFormRequest{Data: map[string]string{"notes": "hi"}})
	assertCode(t, err, "MISSING_FIELD")

	sub, err := svc.Submit(ctx, form.ID, SubmitFormRequest{Data: map[string]string{"company": " Acme ", "ignored": "x"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"company": "Acme"}, sub.Data)
	assert.Equal(t, fixedNow, sub.SubmittedAt)

	updated, err := svc.Update(ctx, form.ID, SaveFormRequest{Title: "Client intake v2", Fields: []FormFieldInput{{ID: "company", Label: "Company"}}})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	subs, err := svc.Submissions(ctx, form.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	_, err = svc.Submissions(ctx, "form-404")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(ctx, SaveFormRequest{Title: " "})
	assertCode(t, err, "INVALID_TITLE")
}
