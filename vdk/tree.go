package vdk

import "strings"

// writerNode is one file or directory in the in-memory tree the writer
// builds from added paths before serializing. Intermediate directories
// are created implicitly as files are added under them.
type writerNode struct {
	name     string
	fullPath string
	isDir    bool

	subdirs map[string]*writerNode
	files   map[string]*writerNode

	// file-only fields. payload is the bytes actually written to disk
	// (compressed or not, decided and memoized when the file was added).
	uncompressedSize uint32
	payload          []byte
}

func newDirNode(name, fullPath string) *writerNode {
	return &writerNode{
		name:     name,
		fullPath: fullPath,
		isDir:    true,
		subdirs:  make(map[string]*writerNode),
		files:    make(map[string]*writerNode),
	}
}

// insertFile walks/creates the directory components of path and attaches
// a file leaf with the given payload, returning the number of new
// directory nodes created along the way.
func (root *writerNode) insertFile(path string, uncompressedSize uint32, payload []byte) int {
	parts := strings.Split(path, "/")
	dir := root
	newDirs := 0
	for _, comp := range parts[:len(parts)-1] {
		key := strings.ToLower(comp)
		next, ok := dir.subdirs[key]
		if !ok {
			next = newDirNode(comp, joinPath(dir.fullPath, comp))
			dir.subdirs[key] = next
			newDirs++
		}
		dir = next
	}

	name := parts[len(parts)-1]
	_, existed := dir.files[strings.ToLower(name)]
	dir.files[strings.ToLower(name)] = &writerNode{
		name:             name,
		fullPath:         joinPath(dir.fullPath, name),
		uncompressedSize: uncompressedSize,
		payload:          payload,
	}
	if existed {
		// overwriting an existing path doesn't add a new file count;
		// caller recomputes counts from the final tree regardless.
	}
	return newDirs
}

// sortedSubdirs and sortedFiles return this node's children sorted
// case-insensitively by name, matching the deterministic child ordering
// an archive built from a directory walk is expected to have.
func (n *writerNode) sortedSubdirs() []*writerNode {
	return sortNodes(n.subdirs)
}

func (n *writerNode) sortedFiles() []*writerNode {
	return sortNodes(n.files)
}

func sortNodes(m map[string]*writerNode) []*writerNode {
	out := make([]*writerNode, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	// insertion sort keeps this readable for the small child counts
	// typical of a game archive's directories.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && strings.ToLower(out[j-1].name) > strings.ToLower(out[j].name); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// nodeSize computes the serialized size of a named directory's own body:
// its "." and ".." bracket entries, each subdirectory's entry record plus
// that subdirectory's own body, and each file's entry record plus its
// stored payload. This is a pure function of the tree and the
// already-decided (memoized) file payloads -- no stream position is
// involved, which is what lets the writer emit every sibling_offset in a
// single pass.
func nodeSize(n *writerNode) int64 {
	return bodySize(n, false)
}

// rootBodySize is nodeSize's counterpart for the implicit root, which
// carries only a single "." bracket entry rather than "." and "..".
func rootBodySize(root *writerNode) int64 {
	return bodySize(root, true)
}

func bodySize(n *writerNode, isRoot bool) int64 {
	size := int64(entryRecordSize) // "."
	if !isRoot {
		size += entryRecordSize // ".."
	}
	for _, sub := range n.subdirs {
		size += entryRecordSize + nodeSize(sub)
	}
	for _, f := range n.files {
		size += entryRecordSize + int64(len(f.payload))
	}
	return size
}

// countTree returns the total number of named directories and files in
// the tree rooted at n (excluding the synthetic "." / ".." entries).
func countTree(n *writerNode) (dirs, files int) {
	files += len(n.files)
	for _, sub := range n.subdirs {
		dirs++
		d, f := countTree(sub)
		dirs += d
		files += f
	}
	return dirs, files
}
