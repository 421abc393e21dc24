// Copyright 2025 Poiesic Systems
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


package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Archiver moves processed export files into month-stamped
// subdirectories of the archive root, e.g. archive/2025-01/.
type Archiver struct {
	root string
	now  func() time.Time
}

func NewArchiver(root string) *Archiver {
	return &Archiver{root: root, now: time.Now}
}

// Archive moves the file into <root>/<YYYY-MM>/<name>. A name
// collision appends a numeric suffix rather than overwriting the
// earlier archive copy.
func (a *Archiver) Archive(path string) (string, error) {
	month := a.now().Format("2006-01")
	dir := filepath.Join(a.root, month)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}

	name := filepath.Base(path)
	target := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(name)
		target = filepath.Join(dir, fmt.Sprintf("%s.%d%s", name[:len(name)-len(ext)], i, ext))
	}

	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("archiving %s: %w", name, err)
	}
	return target, nil
}
