// Package extract runs uploaded certificate documents through a staged
// pipeline: text-layer read, vision OCR fallback for image-only sources,
// structured field extraction, date normalization, and entity resolution.
package extract

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/resilience"
	"github.com/traincore/certassist/internal/resolve"
	"github.com/traincore/certassist/internal/store"
	"github.com/traincore/certassist/pkg/vision"
)

const (
	// Below this many text-layer characters the source is treated as
	// image-only and sent through vision OCR.
	textSufficiencyMin = 10

	// Vision OCR is capped to the first pages of a document to bound
	// latency and cost.
	maxOCRPages = 3

	// Concurrent documents per batch run.
	batchConcurrency = 4
)

const ocrPrompt = "Extract ALL visible text from this document page. " +
	"Return the text exactly as printed, preserving labels like certificate numbers and dates. No commentary."

// TextReader is the text-layer extraction dependency (pdftotext or an
// OCR provider behind the same interface).
type TextReader interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// PageRenderer rasterizes document pages for the vision path.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdfPath string, maxPages int) ([][]byte, error)
}

// Pipeline processes extraction requests end to end and persists every
// state transition.
type Pipeline struct {
	store    store.Store
	reader   TextReader
	renderer PageRenderer
	visionC  vision.Client
	fields   *FieldExtractor
	retry    resilience.RetryConfig
}

func NewPipeline(st store.Store, reader TextReader, renderer PageRenderer, visionC vision.Client, fields *FieldExtractor) *Pipeline {
	return &Pipeline{
		store:    st,
		reader:   reader,
		renderer: renderer,
		visionC:  visionC,
		fields:   fields,
		retry:    resilience.ProviderRetryConfig(),
	}
}

// Process runs one document through the pipeline. The returned result is
// also persisted; on failure the stored record carries the error and a
// zero confidence. Failures are surfaced to the caller, never retried
// automatically at this level.
func (p *Pipeline) Process(ctx context.Context, req model.ExtractionRequest) (*model.ExtractionResult, error) {
	result, err := p.run(ctx, req)
	if err != nil {
		zap.L().Warn("extraction failed",
			zap.String("document", req.DocumentID),
			zap.Error(err))
		if serr := p.store.UpdateExtractionStatus(ctx, req.DocumentID, model.ExtractionFailed, err.Error()); serr != nil {
			zap.L().Error("persist failed status", zap.Error(serr))
		}
		return &model.ExtractionResult{
			DocumentID: req.DocumentID,
			Status:     model.ExtractionFailed,
			Confidence: 0,
			Errors:     []string{err.Error()},
		}, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, req model.ExtractionRequest) (*model.ExtractionResult, error) {
	if !supportedMime(req.MimeType) {
		return nil, eris.Errorf("extract: unsupported mime type %q", req.MimeType)
	}

	result := &model.ExtractionResult{DocumentID: req.DocumentID}

	text, err := p.extractText(ctx, req, result)
	if err != nil {
		return nil, err
	}

	if err := p.setStatus(ctx, req.DocumentID, model.ExtractionAIExtracting); err != nil {
		return nil, err
	}
	fields, confidence, note, err := p.fields.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	result.Fields = fields
	result.Confidence = confidence
	if note != "" {
		result.Errors = append(result.Errors, note)
	}
	result.Status = model.ExtractionParsed

	if err := p.resolveEntities(ctx, result); err != nil {
		return nil, err
	}
	result.Status = model.ExtractionCompleted

	if err := p.store.SaveExtractionResult(ctx, result); err != nil {
		return nil, err
	}
	zap.L().Info("extraction completed",
		zap.String("document", req.DocumentID),
		zap.Int("confidence", result.Confidence),
		zap.Bool("employee_matched", result.SuggestedEmployee != nil))
	return result, nil
}

// extractText chooses the text-layer or vision path based on the
// sufficiency heuristic.
func (p *Pipeline) extractText(ctx context.Context, req model.ExtractionRequest, result *model.ExtractionResult) (string, error) {
	isPDF := req.MimeType == "application/pdf"

	var text string
	if isPDF {
		if err := p.setStatus(ctx, req.DocumentID, model.ExtractionTextExtracting); err != nil {
			return "", err
		}
		layer, err := p.reader.ExtractText(ctx, req.BlobPath)
		if err != nil {
			return "", err
		}
		text = layer
	}

	if len(strings.TrimSpace(text)) >= textSufficiencyMin {
		return text, nil
	}

	// Image-only source: render pages and OCR each through the vision
	// model, capped at the first pages.
	if err := p.setStatus(ctx, req.DocumentID, model.ExtractionOCRRendering); err != nil {
		return "", err
	}

	var pages [][]byte
	if isPDF {
		rendered, err := p.renderer.RenderPages(ctx, req.BlobPath, maxOCRPages)
		if err != nil {
			return "", err
		}
		pages = rendered
	} else {
		data, err := os.ReadFile(req.BlobPath)
		if err != nil {
			return "", eris.Wrapf(err, "extract: read image %s", req.BlobPath)
		}
		pages = [][]byte{data}
	}
	if len(pages) > maxOCRPages {
		pages = pages[:maxOCRPages]
	}

	var sb strings.Builder
	for i, page := range pages {
		pageText, err := p.ocrPage(ctx, req.MimeType, page, isPDF)
		if err != nil {
			return "", eris.Wrapf(err, "extract: OCR page %d", i+1)
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

func (p *Pipeline) ocrPage(ctx context.Context, mimeType string, page []byte, rendered bool) (string, error) {
	imageMime := mimeType
	if rendered {
		imageMime = "image/png"
	}

	resp, err := resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*vision.ChatCompletionResponse, error) {
		return p.visionC.ChatCompletion(ctx, vision.ChatCompletionRequest{
			Messages: []vision.Message{{
				Role: "user",
				Content: []vision.ContentPart{
					vision.TextPart(ocrPrompt),
					vision.ImagePart(imageMime, page),
				},
			}},
		})
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("extract: vision response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// resolveEntities fuzzy-matches the extracted holder name and certificate
// type against known records. The resolver is read-only; match failures
// leave the suggestions empty rather than erroring.
func (p *Pipeline) resolveEntities(ctx context.Context, result *model.ExtractionResult) error {
	if result.Fields.HolderName == "" && result.Fields.CertificateType == "" {
		result.Status = model.ExtractionResolved
		return nil
	}

	if result.Fields.HolderName != "" {
		employees, err := p.store.ListEmployees(ctx, 0)
		if err != nil {
			return err
		}
		result.SuggestedEmployee = resolve.ResolveEmployee(result.Fields.HolderName, employees)
	}
	if result.Fields.CertificateType != "" {
		types, err := p.store.ListCertificateTypes(ctx)
		if err != nil {
			return err
		}
		result.SuggestedType = resolve.ResolveCertificateType(result.Fields.CertificateType, types)
	}
	result.Status = model.ExtractionResolved
	return nil
}

func (p *Pipeline) setStatus(ctx context.Context, documentID string, status model.ExtractionStatus) error {
	return p.store.UpdateExtractionStatus(ctx, documentID, status, "")
}

// ProcessBatch runs several documents concurrently. Documents are
// independent: one failure does not stop the others, and each failure is
// recorded on its own document.
func (p *Pipeline) ProcessBatch(ctx context.Context, reqs []model.ExtractionRequest) []*model.ExtractionResult {
	results := make([]*model.ExtractionResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			// Failures are already recorded on the document; keep the
			// batch going.
			res, _ := p.Process(gctx, req)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func supportedMime(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}
