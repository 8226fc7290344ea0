package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"

	"github.com/imalink-project/imalink-sub001/media"
)

// SourceFile is one discovered importable file under a source root.
type SourceFile struct {
	Path string // absolute path
	Name string // base filename
	Size int64
	Kind media.FileKind
}

// GroupKind classifies a file group for the duplicate/merge policy table.
type GroupKind string

const (
	GroupPair     GroupKind = "pair"
	GroupJpegOnly GroupKind = "jpeg_only"
	GroupRawOnly  GroupKind = "raw_only"
	GroupOther    GroupKind = "other"
)

// FileGroup collects the files sharing one basename stem: at most one JPEG
// master, at most one RAW companion, and at most one other raster member.
// Surplus same-category files become singleton groups of their own.
type FileGroup struct {
	Stem   string
	JPEG   *SourceFile
	Raw    *SourceFile
	Others []SourceFile
	Kind   GroupKind
}

// Master returns the file derivatives are produced from, or nil for groups
// that have no decodable master (raw_only).
func (g *FileGroup) Master() *SourceFile {
	if g.JPEG != nil {
		return g.JPEG
	}
	if len(g.Others) > 0 {
		return &g.Others[0]
	}
	return nil
}

// Members returns every file in the group, master first.
func (g *FileGroup) Members() []SourceFile {
	var members []SourceFile
	if g.JPEG != nil {
		members = append(members, *g.JPEG)
	}
	if g.Raw != nil {
		members = append(members, *g.Raw)
	}
	members = append(members, g.Others...)
	return members
}

// ScanSource walks the source root and returns every importable file in
// natural sort order. Paths that differ only by case are deduplicated only
// when they resolve to the same underlying file, so a case-insensitive
// filesystem never double-counts one file while a case-sensitive one keeps
// genuinely distinct entries. A root that cannot be read is fatal
// (ErrSourceUnreadable); unreadable subentries are skipped.
func ScanSource(root string) ([]SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceUnreadable, root)
	}

	byPath := make(map[string]SourceFile)
	infoByPath := make(map[string]fs.FileInfo)
	var paths []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, root, err)
			}
			// unreadable subdirectory or entry: skip it, not the batch
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !media.IsImportable(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}

		key := strings.ToLower(path)
		if prev, seen := infoByPath[key]; seen {
			// the same file surfacing under another case is an alias, not a
			// second photo; distinct files keep their exact path as the key
			if os.SameFile(prev, fi) {
				return nil
			}
			key = path
			if _, seen := infoByPath[key]; seen {
				return nil
			}
		}
		infoByPath[key] = fi
		byPath[key] = SourceFile{
			Path: path,
			Name: d.Name(),
			Size: fi.Size(),
			Kind: media.ClassifyFile(d.Name()),
		}
		paths = append(paths, key)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	natsort.Sort(paths)

	files := make([]SourceFile, 0, len(paths))
	for _, key := range paths {
		files = append(files, byPath[key])
	}
	return files, nil
}

// stem returns the case-normalized filename without its extension.
func stem(name string) string {
	base := strings.ToLower(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GroupFiles groups discovered files by basename stem and classifies each
// group for the policy table. When several files of the same category share a
// stem (e.g. IMG_1.jpg and IMG_1.JPEG on a case-sensitive filesystem), the
// first in sort order claims the slot and the rest become singleton groups of
// their own instead of being silently discarded.
func GroupFiles(files []SourceFile) []FileGroup {
	type bucket struct {
		group    *FileGroup
		overflow []SourceFile
	}

	byStem := make(map[string]*bucket)
	var order []string

	for _, f := range files {
		s := stem(f.Name)
		b, ok := byStem[s]
		if !ok {
			b = &bucket{group: &FileGroup{Stem: s}}
			byStem[s] = b
			order = append(order, s)
		}

		file := f
		switch f.Kind.Class {
		case media.ClassJPEG:
			if b.group.JPEG == nil {
				b.group.JPEG = &file
			} else {
				b.overflow = append(b.overflow, file)
			}
		case media.ClassRaw:
			if b.group.Raw == nil {
				b.group.Raw = &file
			} else {
				b.overflow = append(b.overflow, file)
			}
		default:
			if len(b.group.Others) == 0 {
				b.group.Others = append(b.group.Others, file)
			} else {
				b.overflow = append(b.overflow, file)
			}
		}
	}

	var groups []FileGroup
	for _, s := range order {
		b := byStem[s]
		g := b.group

		// a RAW whose stem-mates are all non-JPEG cannot ride along: it has
		// no decodable master to pair with, so it is split off as raw_only
		if g.Raw != nil && g.JPEG == nil && len(g.Others) > 0 {
			raw := *g.Raw
			g.Raw = nil
			b.overflow = append([]SourceFile{raw}, b.overflow...)
		}

		g.Kind = classifyGroup(g)
		groups = append(groups, *g)

		// surplus same-category members get their own singleton groups
		for _, f := range b.overflow {
			single := FileGroup{Stem: s}
			file := f
			switch f.Kind.Class {
			case media.ClassJPEG:
				single.JPEG = &file
			case media.ClassRaw:
				single.Raw = &file
			default:
				single.Others = append(single.Others, file)
			}
			single.Kind = classifyGroup(&single)
			groups = append(groups, single)
		}
	}
	return groups
}

func classifyGroup(g *FileGroup) GroupKind {
	switch {
	case g.JPEG != nil && g.Raw != nil:
		return GroupPair
	case g.JPEG != nil:
		return GroupJpegOnly
	case g.Raw != nil:
		return GroupRawOnly
	default:
		return GroupOther
	}
}
