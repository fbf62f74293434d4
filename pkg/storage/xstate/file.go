package xstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// DefaultStateFile 文件存储的默认路径（相对日志根目录）。
const DefaultStateFile = "logs/.xlogkit-state.json"

// File 以单个 JSON 文档持久化所有键值。
//
// 每次 Get 都重新读取文件，因此多个进程共享同一文件时能看到彼此的写入
// （但不提供跨进程互斥）。Put 先写临时文件再替换，避免写到一半的文档。
type File struct {
	fs   *xfile.FS
	path string
	mu   sync.Mutex
}

var _ Store = (*File)(nil)

// NewFile 创建文件存储。path 为空时使用 DefaultStateFile。
func NewFile(fsys *xfile.FS, path string) (*File, error) {
	if fsys == nil {
		return nil, ErrNilClient
	}
	if path == "" {
		path = DefaultStateFile
	}
	cleaned, err := xfile.Clean(path)
	if err != nil {
		return nil, err
	}
	return &File{fs: fsys, path: cleaned}, nil
}

// Path 返回状态文件路径。
func (f *File) Path() string {
	return f.path
}

// Get 实现 Store。
func (f *File) Get(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Put 实现 Store。
func (f *File) Put(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	doc[key] = value

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("xstate: encode %s: %w", f.path, err)
	}
	if dir := xfile.Dir(f.path); dir != "." {
		if err := f.fs.EnsureDir(dir); err != nil {
			return fmt.Errorf("xstate: put %q: %w", key, err)
		}
	}
	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, data); err != nil {
		return fmt.Errorf("xstate: put %q: %w", key, err)
	}
	if err := f.fs.Replace(tmp, f.path); err != nil {
		return fmt.Errorf("xstate: put %q: %w", key, err)
	}
	return nil
}

// load 读取状态文档，文件不存在时返回空文档。
func (f *File) load() (map[string]string, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if xfile.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("xstate: load %s: %w", f.path, err)
	}
	doc := make(map[string]string)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupted, f.path, err)
	}
	return doc, nil
}
