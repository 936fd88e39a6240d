package gateway

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebrandon1/pdf-summarizer/internal/logging"
	"github.com/sebrandon1/pdf-summarizer/internal/pdftext"
	"github.com/sebrandon1/pdf-summarizer/internal/summarizer"
)

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (e *stubExtractor) Extract(data []byte) (string, error) {
	e.calls++
	return e.text, e.err
}

func newService(extractor Extractor) (*Service, *summarizer.MockOllamaClient) {
	mockClient := summarizer.NewMockOllamaClient()
	sum := summarizer.New(mockClient, "orca-mini", time.Second, logging.Discard())
	return New(extractor, sum, logging.Discard()), mockClient
}

func TestFromTextLengths(t *testing.T) {
	svc, mockClient := newService(&stubExtractor{})
	mockClient.DefaultResponse = "  Résumé court.  "

	res, err := svc.FromText(context.Background(), "  Un texte accentué à résumer.\n")
	require.NoError(t, err)

	assert.Equal(t, "Résumé court.", res.Summary)
	assert.Equal(t, utf8.RuneCountInString(res.Summary), res.SummaryLength)
	assert.Equal(t, utf8.RuneCountInString("Un texte accentué à résumer."), res.OriginalLength)

	requests := mockClient.Requests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].Prompt, "Un texte accentué à résumer.")
}

func TestFromTextRejectsBlank(t *testing.T) {
	svc, mockClient := newService(&stubExtractor{})

	for _, text := range []string{"", "  ", "\n\t "} {
		_, err := svc.FromText(context.Background(), text)
		require.Error(t, err)
		assert.True(t, IsInputError(err), "blank text %q should be an input error", text)
		assert.Equal(t, "Text cannot be empty", err.Error())
	}
	assert.Empty(t, mockClient.Requests())
}

func TestFromPDF(t *testing.T) {
	extractor := &stubExtractor{text: "Page one.\nPage two."}
	svc, mockClient := newService(extractor)
	mockClient.DefaultResponse = "Two pages."

	res, err := svc.FromPDF(context.Background(), "Report.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, Result{Summary: "Two pages.", OriginalLength: 19, SummaryLength: 10}, res)
	assert.Equal(t, 1, extractor.calls)
}

func TestFromPDFInputErrors(t *testing.T) {
	testCases := []struct {
		name      string
		filename  string
		data      []byte
		extractor *stubExtractor
		message   string
	}{
		{
			name:      "wrong extension",
			filename:  "notes.txt",
			data:      []byte("%PDF-1.4"),
			extractor: &stubExtractor{text: "text"},
			message:   "Only PDF files are allowed",
		},
		{
			name:      "extension only in the middle",
			filename:  "report.pdf.exe",
			data:      []byte("%PDF-1.4"),
			extractor: &stubExtractor{text: "text"},
			message:   "Only PDF files are allowed",
		},
		{
			name:      "empty file",
			filename:  "empty.pdf",
			data:      nil,
			extractor: &stubExtractor{text: "text"},
			message:   "Empty file",
		},
		{
			name:      "extraction failure",
			filename:  "broken.pdf",
			data:      []byte("%PDF-1.4 garbage"),
			extractor: &stubExtractor{err: &pdftext.ExtractionError{Err: errors.New("malformed xref")}},
			message:   "Error extracting text from PDF: malformed xref",
		},
		{
			name:      "no text",
			filename:  "scan.pdf",
			data:      []byte("%PDF-1.4"),
			extractor: &stubExtractor{text: " \n "},
			message:   "No text found in PDF",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mockClient := newService(tc.extractor)

			_, err := svc.FromPDF(context.Background(), tc.filename, tc.data)
			require.Error(t, err)
			assert.True(t, IsInputError(err))
			assert.Equal(t, tc.message, err.Error())
			assert.Empty(t, mockClient.Requests(), "backend must not be called")
		})
	}
}

func TestFromPDFNoTextIsSentinel(t *testing.T) {
	svc, _ := newService(&stubExtractor{text: ""})

	_, err := svc.FromPDF(context.Background(), "blank.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestBackendErrorsPassThrough(t *testing.T) {
	svc, mockClient := newService(&stubExtractor{})
	mockClient.GenerateErr = context.DeadlineExceeded

	_, err := svc.FromText(context.Background(), "some text")
	require.Error(t, err)
	assert.False(t, IsInputError(err))

	var backendErr *summarizer.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, summarizer.KindTimeout, backendErr.Kind)
}

func TestSummarizeIgnoresClientCancellation(t *testing.T) {
	svc, mockClient := newService(&stubExtractor{})
	mockClient.Delay = 20 * time.Millisecond
	mockClient.DefaultResponse = "Finished anyway."

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.FromText(ctx, "some text")
	require.NoError(t, err)
	assert.Equal(t, "Finished anyway.", res.Summary)
}
