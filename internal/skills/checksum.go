package skills

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
)

// hashConcurrency bounds concurrent file reads while fingerprinting.
const hashConcurrency = 8

// Manifest is the persisted checksum baseline of a skills directory.
type Manifest struct {
	// Checksums maps slash-separated paths relative to the skills
	// directory to hex SHA-256 digests. encoding/json writes map keys in
	// sorted order.
	Checksums map[string]string `json:"checksums"`
	UpdatedAt string            `json:"updatedAt"`
}

// CollectChecksums hashes every file below root. Manifest files are skipped.
// Unreadable files and directories are left out rather than failing the scan.
func CollectChecksums(ctx context.Context, fs filesystem.FileSystem, root string) (map[string]string, error) {
	files := walkFiles(fs, root)

	var mu sync.Mutex
	sums := make(map[string]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hashConcurrency)
	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := fs.ReadFile(path)
			if err != nil {
				return nil //nolint:nilerr // unreadable files are not fingerprinted
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil //nolint:nilerr // path is always below root
			}
			digest := sha256.Sum256([]byte(content))

			mu.Lock()
			sums[filepath.ToSlash(rel)] = hex.EncodeToString(digest[:])
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}

func walkFiles(fs filesystem.FileSystem, dir string) []string {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, name := range entries {
		path := filepath.Join(dir, name)
		if isDir, err := fs.IsDirectory(path); err == nil && isDir {
			files = append(files, walkFiles(fs, path)...)
			continue
		}
		if name != constants.ChecksumFileName {
			files = append(files, path)
		}
	}
	return files
}

// Mismatches returns the sorted paths that are missing on either side or
// whose digests differ.
func Mismatches(expected, actual map[string]string) []string {
	var out []string
	for path, sum := range expected {
		if got, ok := actual[path]; !ok || got != sum {
			out = append(out, path)
		}
	}
	for path := range actual {
		if _, ok := expected[path]; !ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Verifier records or checks the checksum manifest of a skills directory.
type Verifier struct {
	fs     filesystem.FileSystem
	clock  clock.Clock
	logger zerolog.Logger
}

// NewVerifier creates a Verifier. A nil clk uses the real clock.
func NewVerifier(fs filesystem.FileSystem, clk clock.Clock, logger zerolog.Logger) *Verifier {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Verifier{fs: fs, clock: clk, logger: logger}
}

// Verify fingerprints skillsRoot. Without a manifest the current state is
// written as the baseline. With one, drift is logged and returned; it never
// fails the installation.
func (v *Verifier) Verify(ctx context.Context, skillsRoot string) []string {
	if !v.fs.Exists(skillsRoot) {
		v.logger.Warn().Str("skills_root", skillsRoot).Msg("skills directory not found for checksum verification")
		return nil
	}

	current, err := CollectChecksums(ctx, v.fs, skillsRoot)
	if err != nil {
		v.logger.Warn().Err(err).Str("skills_root", skillsRoot).Msg("checksum collection interrupted")
		return nil
	}

	manifestPath := filepath.Join(skillsRoot, constants.ChecksumFileName)
	if !v.fs.Exists(manifestPath) {
		v.writeManifest(manifestPath, current)
		return nil
	}

	content, err := v.fs.ReadFile(manifestPath)
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to read checksum file")
		return nil
	}
	var manifest Manifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		v.logger.Warn().Err(err).Str("path", manifestPath).Msg("invalid checksum file format")
		return nil
	}
	if manifest.Checksums == nil {
		return nil
	}

	mismatches := Mismatches(manifest.Checksums, current)
	if len(mismatches) > 0 {
		v.logger.Warn().Strs("mismatches", mismatches).Msg("skill checksum mismatch")
	}
	return mismatches
}

func (v *Verifier) writeManifest(path string, sums map[string]string) {
	data, err := json.MarshalIndent(Manifest{
		Checksums: sums,
		UpdatedAt: v.clock.Now().UTC().Format(constants.TimestampFormat),
	}, "", "  ")
	if err != nil {
		v.logger.Error().Err(err).Msg("failed to encode checksum file")
		return
	}
	if err := v.fs.WriteFile(path, string(data)); err != nil {
		v.logger.Error().Err(err).Str("path", path).Msg("failed to write checksum file")
	}
}
