package plumbing

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/brickster241/caf/utils"
	"github.com/brickster241/caf/utils/constants"
	"github.com/brickster241/caf/utils/logging"
	"github.com/brickster241/caf/utils/types"
)

var log = logging.GetLogger()

// objectHeader builds the canonical "<type> <size>\0" prefix that is hashed together with the content.
func objectHeader(objType types.ObjectType, size int) []byte {
	return []byte(fmt.Sprintf("%s %d\x00", objType, size))
}

// HashObject computes the SHA-1 id of an object WITHOUT writing it to disk.
func HashObject(objType types.ObjectType, content []byte) [20]byte {
	h := sha1.New()
	h.Write(objectHeader(objType, len(content)))
	h.Write(content)

	var sha [20]byte
	copy(sha[:], h.Sum(nil))
	return sha
}

// objectPath returns .caf/objects/aa/bbbb... for an object id.
func objectPath(shaHex string) string {
	return utils.RepoPath("objects", shaHex[:2], shaHex[2:])
}

// ObjectExists reports whether the object is present in the object database.
func ObjectExists(sha [20]byte) bool {
	_, err := os.Stat(objectPath(hex.EncodeToString(sha[:])))
	return err == nil
}

// WriteObject stores an object (blob, tree, or commit) in .caf/objects and returns its id. If the object already
// exists it is NOT rewritten. The compressed bytes are first written to a temporary file which is then renamed, so
// readers never observe a partially written object.
func WriteObject(objType types.ObjectType, content []byte) ([20]byte, error) {
	if !objType.Valid() {
		return [20]byte{}, fmt.Errorf("unsupported object type %q", objType)
	}

	sha := HashObject(objType, content)
	shaHex := hex.EncodeToString(sha[:])
	filePath := objectPath(shaHex)

	if _, err := os.Stat(filePath); err == nil {
		log.Trace("object %s already stored", shaHex)
		return sha, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return [20]byte{}, err
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, constants.DefaultDirPerm); err != nil {
		return [20]byte{}, err
	}

	// Z-lib compress header + content
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(objectHeader(objType, len(content))); err != nil {
		return [20]byte{}, err
	}
	if _, err := w.Write(content); err != nil {
		return [20]byte{}, err
	}
	if err := w.Close(); err != nil {
		return [20]byte{}, err
	}

	if err := writeFileAtomic(filePath, buf.Bytes()); err != nil {
		return [20]byte{}, fmt.Errorf("write object %s: %w", shaHex, err)
	}

	log.Debug("wrote %s %s (%d bytes)", objType, shaHex, len(content))
	return sha, nil
}

// writeFileAtomic writes data next to path under a unique temporary name and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "tmp_"+uuid.NewString())
	if err := os.WriteFile(tmp, data, constants.DefaultFilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ReadObject reads and inflates an object from .caf/objects. It returns the object type and the raw content
// WITHOUT header.
func ReadObject(shaHex string) (types.ObjectType, []byte, error) {
	if _, err := utils.ParseSHA(shaHex); err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidObjectID, shaHex)
	}
	shaHex = strings.ToLower(shaHex)

	f, err := os.Open(objectPath(shaHex))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, fmt.Errorf("object %s %w", shaHex, ErrObjectNotFound)
	} else if err != nil {
		return "", nil, err
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("%w %s: %v", ErrCorruptObject, shaHex, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, fmt.Errorf("%w %s: %v", ErrCorruptObject, shaHex, err)
	}

	// Split Header, Content -> then Header to parts
	nullIdx := bytes.IndexByte(data, 0)
	if nullIdx == -1 {
		return "", nil, fmt.Errorf("%w %s: missing header", ErrCorruptObject, shaHex)
	}
	typeStr, sizeStr, ok := strings.Cut(string(data[:nullIdx]), " ")
	if !ok {
		return "", nil, fmt.Errorf("%w %s: invalid header", ErrCorruptObject, shaHex)
	}
	content := data[nullIdx+1:]
	if size, err := strconv.Atoi(sizeStr); err != nil || size != len(content) {
		return "", nil, fmt.Errorf("%w %s: size mismatch", ErrCorruptObject, shaHex)
	}

	objType := types.ObjectType(typeStr)
	if !objType.Valid() {
		return "", nil, fmt.Errorf("%w %s: unknown type %q", ErrCorruptObject, shaHex, typeStr)
	}

	log.Trace("read %s %s", objType, shaHex)
	return objType, content, nil
}

// ExpandSHA resolves a full or abbreviated (at least 4 hex digits) object id to the id of a stored object.
func ExpandSHA(prefix string) ([20]byte, error) {
	prefix = strings.ToLower(prefix)
	if len(prefix) == 40 {
		sha, err := utils.ParseSHA(prefix)
		if err != nil {
			return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidObjectID, prefix)
		}
		if !ObjectExists(sha) {
			return [20]byte{}, fmt.Errorf("object %s %w", prefix, ErrObjectNotFound)
		}
		return sha, nil
	}

	if len(prefix) < 4 || len(prefix) > 40 {
		return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidObjectID, prefix)
	}
	if _, err := hex.DecodeString(prefix[:len(prefix)&^1]); err != nil {
		return [20]byte{}, fmt.Errorf("%w: %s", ErrInvalidObjectID, prefix)
	}

	dirEntries, err := os.ReadDir(utils.RepoPath("objects", prefix[:2]))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return [20]byte{}, err
	}

	var matches []string
	for _, de := range dirEntries {
		if name := prefix[:2] + de.Name(); !de.IsDir() && len(name) == 40 && strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return [20]byte{}, fmt.Errorf("object %s %w", prefix, ErrObjectNotFound)
	case 1:
		return utils.ParseSHA(matches[0])
	}
	return [20]byte{}, fmt.Errorf("%w: short id %s is ambiguous", ErrInvalidObjectID, prefix)
}
