package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/iamNilotpal/mediapress/internal/adapters/compression"
	"github.com/iamNilotpal/mediapress/internal/adapters/huffman"
	"github.com/iamNilotpal/mediapress/internal/core/domain"
	"github.com/iamNilotpal/mediapress/pkg/checksum"
	"github.com/iamNilotpal/mediapress/pkg/errors"
)

const (
	artifactExtension   = ".jpg"
	codestreamExtension = ".huf"
)

// source is an original stored under UploadDir.
type source struct {
	id   string
	path string
	size int64
}

// newID returns a fresh artifact name: the CRC of the source path, the
// current time and a per-engine counter, hex encoded.
func (e *Engine) newID(seed string) string {
	return fmt.Sprintf(
		"%08x%016x%04x",
		checksum.Checksum([]byte(seed)), time.Now().UnixNano(), e.seq.Add(1)&0xffff,
	)
}

// storeUpload checks the size limit and copies the original into UploadDir.
func (e *Engine) storeUpload(path string) (*source, error) {
	size, err := e.fs.Size(path)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorDecode, "engine.read_source", err)
	}

	if size > e.opts.MaxFileSizeBytes {
		return nil, errors.NewValidationError(
			"size", size,
			fmt.Errorf("file is %d bytes, limit is %d", size, e.opts.MaxFileSizeBytes),
		)
	}

	id := e.newID(path)
	dest := filepath.Join(e.opts.UploadDir, id+strings.ToLower(filepath.Ext(path)))
	if err := e.fs.CopyFile(path, dest); err != nil {
		return nil, errors.NewMediaError(errors.ErrorPersist, "engine.store_upload", err)
	}

	return &source{id: id, path: dest, size: size}, nil
}

// writeArtifact writes data once as OutputDir/<id><ext>.
func (e *Engine) writeArtifact(id, ext string, data []byte) (string, error) {
	location := filepath.Join(e.opts.OutputDir, id+ext)
	if err := e.fs.WriteFile(location, 0644, data); err != nil {
		return "", errors.NewMediaError(errors.ErrorPersist, "engine.write_artifact", err)
	}
	return location, nil
}

// archiveCodestream writes the Huffman container as OutputDir/<id>.huf.<codec>.
func (e *Engine) archiveCodestream(id string, codestream []byte) (string, error) {
	packed, err := e.archive.Compress(codestream)
	if err != nil {
		return "", errors.NewMediaError(errors.ErrorPersist, "engine.archive_codestream", err)
	}
	return e.writeArtifact(id, codestreamExtension+"."+e.archive.Algorithm(), packed)
}

// ReadCodestream reads an archived codestream and returns the entropy decoded
// byte stream, which is the baseline JPEG the Huffman strategy coded.
func (e *Engine) ReadCodestream(path string) ([]byte, error) {
	const op = "engine.read_codestream"

	base := filepath.Base(path)
	idx := strings.LastIndex(base, codestreamExtension+".")
	if idx < 0 {
		return nil, errors.NewValidationError("path", path, fmt.Errorf("not a codestream archive"))
	}
	algorithm := base[idx+len(codestreamExtension)+1:]

	archiveCodec, err := compression.New(&domain.ArchiveOptions{Codec: algorithm})
	if err != nil {
		return nil, errors.NewValidationError("path", path, err)
	}
	defer archiveCodec.Close()

	if ok, err := e.fs.Exists(path); err != nil {
		return nil, errors.NewMediaError(errors.ErrorDecode, op, err)
	} else if !ok {
		return nil, errors.NewValidationError("path", path, fmt.Errorf("codestream archive not found"))
	}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorDecode, op, err)
	}

	container, err := archiveCodec.Decompress(data)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorDecode, op, err)
	}

	stream, err := huffman.UnmarshalContainer(container)
	if err != nil {
		return nil, errors.NewMediaError(errors.ErrorCoding, op, err)
	}
	return stream, nil
}
