// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kvstore

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/huntlab/errs"
)

const fileExt = ".kv"

// zstdMagic 是 zstd frame 的開頭；讀取時據此判斷是否需要解壓，與寫入設定無關。
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// FileStore 以「一個 key 一個檔案」保存在 dir 底下。
//
// 寫入流程：同目錄建立暫存檔 → 寫入 → Sync → Close → Rename 覆蓋目標，
// 因此讀取端永遠只會看到完整的舊檔或完整的新檔。
type FileStore struct {
	dir string
	mu  sync.Mutex // 序列化同一行程內的寫入

	enc *zstd.Encoder // nil 表示不壓縮
	dec *zstd.Decoder
}

// FileOption 設定 FileStore。
type FileOption func(*FileStore) error

// WithZstd 寫入時以 zstd 壓縮。
func WithZstd(level zstd.EncoderLevel) FileOption {
	return func(s *FileStore) error {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return err
		}
		s.enc = enc
		return nil
	}
}

// NewFileStore 建立（必要時 mkdir）dir 並回傳 FileStore。
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, errs.NewFatal("kvstore: empty store dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "kvstore: create store dir")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errs.Wrap(err, "kvstore: init zstd decoder")
	}
	s := &FileStore{dir: dir, dec: dec}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errs.Wrap(err, "kvstore: apply option")
		}
	}
	return s, nil
}

// Dir 回傳儲存目錄。
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidKey(key); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapWithExtra(err, "kvstore: read", key)
	}
	if !bytes.HasPrefix(raw, zstdMagic) {
		return raw, nil
	}
	out, err := s.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "kvstore: decompress", key)
	}
	return out, nil
}

func (s *FileStore) Put(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidKey(key); err != nil {
		return err
	}
	data := val
	if s.enc != nil {
		data = s.enc.EncodeAll(val, make([]byte, 0, len(val)/2))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomicWrite(s.path(key), data, 0o644); err != nil {
		return errs.WrapWithExtra(err, "kvstore: write", key)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.WrapWithExtra(err, "kvstore: delete", key)
	}
	return nil
}

// Close 釋放 zstd 資源。
func (s *FileStore) Close() error {
	if s.enc != nil {
		_ = s.enc.Close()
	}
	s.dec.Close()
	return nil
}

func atomicWrite(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".tmp-kv-*")
	if err != nil {
		return err
	}
	ok := false
	defer func() {
		if !ok {
			if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("kvstore: remove temp file", "path", tmp.Name(), "error", err)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return err
	}
	ok = true
	return nil
}
