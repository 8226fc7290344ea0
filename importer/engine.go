package importer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"gorm.io/gorm"

	"github.com/imalink-project/imalink-sub001/media"
	"github.com/imalink-project/imalink-sub001/models"
	"github.com/imalink-project/imalink-sub001/repository"
)

// SkipReasonRawWithoutJpeg marks groups skipped because a RAW file arrived
// without a decodable JPEG master.
const SkipReasonRawWithoutJpeg = "raw_without_jpeg"

// Engine dispositions one file group at a time: it resolves the group's
// photo identity, decides new vs duplicate vs partial duplicate, and drives
// derivative generation for new content.
type Engine struct {
	photos    repository.PhotoRepositoryInterface
	files     repository.ImageFileRepositoryInterface
	generator *media.Generator

	// check-then-create is serialized per identity hash so two groups with
	// identical content can never race to create two Photos for one hash
	locksMu   sync.Mutex
	hashLocks map[string]*sync.Mutex
}

// NewEngine creates a duplicate & merge engine over the given collaborators
func NewEngine(photos repository.PhotoRepositoryInterface, files repository.ImageFileRepositoryInterface, generator *media.Generator) *Engine {
	return &Engine{
		photos:    photos,
		files:     files,
		generator: generator,
		hashLocks: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lockIdentity(identityHash string) func() {
	e.locksMu.Lock()
	mu, ok := e.hashLocks[identityHash]
	if !ok {
		mu = &sync.Mutex{}
		e.hashLocks[identityHash] = mu
	}
	e.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// ProcessGroup runs the policy table for one group. Per-item failures are
// returned as OutcomeError values, never as raised errors; callers count and
// log them without aborting the batch.
func (e *Engine) ProcessGroup(batchID string, group FileGroup) GroupOutcome {
	if group.Kind == GroupRawOnly {
		return GroupOutcome{Kind: OutcomeSkipped, SkipReason: SkipReasonRawWithoutJpeg}
	}

	master := group.Master()
	if master == nil {
		return GroupOutcome{Kind: OutcomeSkipped, SkipReason: "empty group"}
	}

	img, err := media.LoadMaster(master.Path)
	if err != nil {
		if strings.Contains(err.Error(), image.ErrFormat.Error()) {
			return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, master.Name, err)}
		}
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: %v", ErrFileUnreadable, master.Name, err)}
	}

	hotPreview, err := e.generator.EncodeHotPreview(img)
	if err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: %v", ErrDerivativeWriteFailed, master.Name, err)}
	}
	identityHash := media.IdentityHash(hotPreview)

	unlock := e.lockIdentity(identityHash)
	defer unlock()

	existing, err := e.photos.GetByHash(identityHash)
	if err != nil && err != gorm.ErrRecordNotFound {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("photo lookup for %s: %w", master.Name, err)}
	}

	if existing != nil {
		return e.mergeIntoExisting(batchID, group, identityHash)
	}
	return e.createNew(batchID, group, master, img, hotPreview, identityHash)
}

// createNew registers a fresh photo identity: derivatives first, then the
// Photo row, then one ImageFile per group member.
func (e *Engine) createNew(batchID string, group FileGroup, master *SourceFile, img image.Image, hotPreview []byte, identityHash string) GroupOutcome {
	previewImg, err := imaging.Decode(bytes.NewReader(hotPreview))
	if err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: decode preview: %v", ErrDerivativeWriteFailed, master.Name, err)}
	}
	perceptualHash, err := media.PerceptualHash(previewImg)
	if err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: %v", ErrDerivativeWriteFailed, master.Name, err)}
	}

	meta, err := media.ExtractMetadata(master.Path)
	if err != nil {
		// metadata extraction is best-effort; proceed with an empty result
		log.Printf("importer: metadata extraction failed for %s: %v", master.Name, err)
		meta = &media.Metadata{}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if meta.Width != nil && meta.Height != nil {
		width, height = *meta.Width, *meta.Height
	}

	if err := e.generator.GenerateAll(identityHash, img, hotPreview); err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s: %v", ErrDerivativeWriteFailed, master.Name, err)}
	}

	photo := &models.Photo{
		IdentityHash:    identityHash,
		PerceptualHash:  perceptualHash,
		Width:           width,
		Height:          height,
		TakenAt:         meta.TakenAt,
		GPSLatitude:     meta.GPSLatitude,
		GPSLongitude:    meta.GPSLongitude,
		CameraMake:      meta.CameraMake,
		CameraModel:     meta.CameraModel,
		EmbeddedPreview: hotPreview,
		CreatedAt:       time.Now().Unix(),
	}
	if err := e.photos.Create(photo); err != nil {
		e.generator.RemoveAll(identityHash)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// the identity lock should have made this impossible
			log.Printf("importer: BUG: %v for hash %s", ErrDuplicateRace, identityHash)
			return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("%w: %s", ErrDuplicateRace, identityHash)}
		}
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("photo create for %s: %w", master.Name, err)}
	}

	files := buildImageFiles(batchID, identityHash, group.Members())
	if err := e.files.CreateAll(files); err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("image file create for %s: %w", master.Name, err)}
	}

	return GroupOutcome{Kind: OutcomeNew, Photo: photo}
}

// mergeIntoExisting appends group members not yet recorded under the
// identity. Previews are not re-derived; the identity already has them.
func (e *Engine) mergeIntoExisting(batchID string, group FileGroup, identityHash string) GroupOutcome {
	var missing []SourceFile
	for _, member := range group.Members() {
		exists, err := e.files.ExistsByHashAndFile(identityHash, member.Name, member.Size)
		if err != nil {
			return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("file lookup for %s: %w", member.Name, err)}
		}
		if !exists {
			missing = append(missing, member)
		}
	}

	if len(missing) == 0 {
		return GroupOutcome{Kind: OutcomeDuplicate}
	}

	added := buildImageFiles(batchID, identityHash, missing)
	if err := e.files.CreateAll(added); err != nil {
		return GroupOutcome{Kind: OutcomeError, Err: fmt.Errorf("image file append for %s: %w", identityHash, err)}
	}
	return GroupOutcome{Kind: OutcomePartial, Added: added}
}

func buildImageFiles(batchID, identityHash string, members []SourceFile) []models.ImageFile {
	now := time.Now().Unix()
	files := make([]models.ImageFile, 0, len(members))
	for _, m := range members {
		files = append(files, models.ImageFile{
			Filename:      m.Name,
			FileSize:      m.Size,
			Format:        m.Kind.Format,
			IdentityHash:  identityHash,
			ImportBatchID: batchID,
			CreatedAt:     now,
		})
	}
	return files
}
