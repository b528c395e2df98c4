// Package publish uploads the generated search index, and any other files
// in the output directory, to an S3 bucket and optionally invalidates the
// CloudFront paths that serve them.
package publish

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Options holds publishing settings.
type Options struct {
	// Prefix is prepended to every object key, e.g. "search/".
	Prefix string
	// Distribution is the CloudFront distribution ID (optional).
	Distribution string
	// InvalidatePaths are invalidated after upload. Empty means one path per
	// uploaded object.
	InvalidatePaths []string
	// Prune deletes remote objects under Prefix that no longer exist locally.
	Prune  bool
	DryRun bool
	Logger *slog.Logger
}

// Result holds the outcome of a publish run.
type Result struct {
	Uploaded    int
	Deleted     int
	Skipped     int
	Invalidated []string
	Errors      []error
}

// FileEntry represents a local file to publish.
type FileEntry struct {
	Path         string // relative path from the output dir, forward slashes
	Key          string // object key, Prefix + Path
	ContentType  string
	CacheControl string
	Hash         string // hex-encoded MD5, comparable to a single-part ETag
}

// S3Client is the object store used during publishing.
type S3Client interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType, cacheControl, hash string) error
	DeleteObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) (map[string]string, error) // key -> hash
}

// CloudFrontClient issues cache invalidations.
type CloudFrontClient interface {
	CreateInvalidation(ctx context.Context, distributionID string, paths []string) error
}

// ContentTypeForExt returns the MIME type for a file extension.
// The ext parameter should include the leading dot (e.g. ".json").
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".json":
		return "application/json; charset=utf-8"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".js", ".mjs":
		return "application/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".xml":
		return "application/xml; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CacheControlForExt returns the Cache-Control header for a file extension.
//
// Policy:
//   - JSON and HTML: "public, max-age=300, must-revalidate"
//   - CSS/JS files: "public, max-age=31536000, immutable"
//   - Other files: "public, max-age=3600"
func CacheControlForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".json", ".html", ".htm":
		return "public, max-age=300, must-revalidate"
	case ".css", ".js", ".mjs":
		return "public, max-age=31536000, immutable"
	default:
		return "public, max-age=3600"
	}
}

// HashFile computes the MD5 hash of a file and returns it as a hex string.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ObjectKey joins prefix and a relative path into an object key.
func ObjectKey(prefix, rel string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// listPrefix is the key prefix covering every object under prefix.
func listPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ScanFiles walks dir and returns a FileEntry per regular file. Dotfiles
// are skipped.
func ScanFiles(dir, prefix string) ([]FileEntry, error) {
	var entries []FileEntry

	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		hash, err := HashFile(p)
		if err != nil {
			return err
		}

		ext := filepath.Ext(p)
		entries = append(entries, FileEntry{
			Path:         rel,
			Key:          ObjectKey(prefix, rel),
			ContentType:  ContentTypeForExt(ext),
			CacheControl: CacheControlForExt(ext),
			Hash:         hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning files: %w", err)
	}

	return entries, nil
}

// DiffFiles compares local files against remote object hashes keyed by
// object key. It returns the files to upload (new or changed) and the keys
// that exist only remotely.
func DiffFiles(local []FileEntry, remote map[string]string) (toUpload []FileEntry, toDelete []string) {
	localKeys := make(map[string]bool, len(local))
	for _, entry := range local {
		localKeys[entry.Key] = true
		if hash, ok := remote[entry.Key]; !ok || hash != entry.Hash {
			toUpload = append(toUpload, entry)
		}
	}

	for key := range remote {
		if !localKeys[key] {
			toDelete = append(toDelete, key)
		}
	}

	return toUpload, toDelete
}

// invalidationPaths picks the CloudFront paths for uploaded entries.
func invalidationPaths(configured []string, uploaded []FileEntry) []string {
	if len(configured) > 0 {
		return configured
	}
	paths := make([]string, len(uploaded))
	for i, e := range uploaded {
		paths[i] = "/" + e.Key
	}
	return paths
}

// Publish syncs dir to the bucket behind s3.
//
// Steps:
//  1. Scan local files
//  2. List remote objects under the prefix
//  3. Diff to find uploads and deletes
//  4. If DryRun, log the plan and return
//  5. Upload new/changed files
//  6. Delete removed files when Prune is set
//  7. If Distribution is set and anything changed, invalidate CloudFront
func Publish(ctx context.Context, opts Options, dir string, s3 S3Client, cf CloudFrontClient) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	result := &Result{}

	localFiles, err := ScanFiles(dir, opts.Prefix)
	if err != nil {
		return nil, fmt.Errorf("scanning local files: %w", err)
	}

	remote, err := s3.ListObjects(ctx, listPrefix(opts.Prefix))
	if err != nil {
		return nil, fmt.Errorf("listing remote objects: %w", err)
	}

	toUpload, toDelete := DiffFiles(localFiles, remote)
	if !opts.Prune {
		toDelete = nil
	}
	result.Skipped = len(localFiles) - len(toUpload)

	if opts.DryRun {
		for _, f := range toUpload {
			logger.Info("would upload", "key", f.Key, "contentType", f.ContentType)
		}
		for _, key := range toDelete {
			logger.Info("would delete", "key", key)
		}
		if opts.Distribution != "" && len(toUpload)+len(toDelete) > 0 {
			result.Invalidated = invalidationPaths(opts.InvalidatePaths, toUpload)
			logger.Info("would invalidate", "distribution", opts.Distribution, "paths", result.Invalidated)
		}
		result.Uploaded = len(toUpload)
		result.Deleted = len(toDelete)
		return result, nil
	}

	var uploaded []FileEntry
	for _, entry := range toUpload {
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(entry.Path)))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("opening %s: %w", entry.Path, err))
			continue
		}

		err = s3.PutObject(ctx, entry.Key, f, entry.ContentType, entry.CacheControl, entry.Hash)
		f.Close()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("uploading %s: %w", entry.Path, err))
			continue
		}
		uploaded = append(uploaded, entry)
		result.Uploaded++
		logger.Debug("uploaded", "key", entry.Key)
	}

	for _, key := range toDelete {
		if err := s3.DeleteObject(ctx, key); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("deleting %s: %w", key, err))
			continue
		}
		result.Deleted++
		logger.Debug("deleted", "key", key)
	}

	if opts.Distribution != "" && cf != nil && result.Uploaded+result.Deleted > 0 {
		paths := invalidationPaths(opts.InvalidatePaths, uploaded)
		if len(paths) == 0 {
			paths = []string{"/" + ObjectKey(opts.Prefix, "*")}
		}
		if err := cf.CreateInvalidation(ctx, opts.Distribution, paths); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("CloudFront invalidation: %w", err))
		} else {
			result.Invalidated = paths
			logger.Debug("invalidated", "distribution", opts.Distribution, "paths", paths)
		}
	}

	return result, nil
}
