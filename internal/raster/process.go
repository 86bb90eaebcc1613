// Package raster turns a downloaded product archive into a viewable PNG.
package raster

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// OutputName is the fixed name of the converted true-color image.
const OutputName = "TCI_converted.png"

// rasterExts are the encodings a TCI file may carry. JP2 appears in real
// products but has no Go decoder; conversion reports it as unsupported.
var rasterExts = map[string]bool{
	".jp2": true, ".tif": true, ".tiff": true,
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true,
}

// ProcessArchive extracts the product zip next to itself, finds the
// true-color (TCI) raster in the most recently extracted folder and writes
// it out as PNG, returning the PNG path.
func ProcessArchive(zipPath string) (string, error) {
	dir := filepath.Dir(zipPath)

	if err := extractZip(zipPath, dir); err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(zipPath), err)
	}

	folders, err := extractedFolders(dir)
	if err != nil {
		return "", err
	}

	for _, folder := range folders {
		tci, err := findTCI(folder)
		if err != nil {
			return "", err
		}
		if tci != "" {
			return convertToPNG(tci, dir)
		}
	}

	return "", errors.New("no TCI raster found in archive")
}

func extractZip(path, dest string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := writeEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// extractedFolders lists subdirectories of dir, newest first, so the folder
// the archive just produced is tried before older leftovers.
func extractedFolders(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	type folder struct {
		path  string
		mtime int64
	}
	var folders []folder
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		folders = append(folders, folder{
			path:  filepath.Join(dir, e.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].mtime > folders[j].mtime })

	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.path
	}
	return paths, nil
}

func findTCI(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || found != "" {
			return nil
		}
		name := d.Name()
		if strings.Contains(name, "TCI") && rasterExts[strings.ToLower(filepath.Ext(name))] {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk %s: %w", root, err)
	}
	return found, nil
}

func convertToPNG(tciPath, outDir string) (string, error) {
	img, err := imaging.Open(tciPath)
	if err != nil {
		return "", fmt.Errorf("decode raster %s: %w", filepath.Base(tciPath), err)
	}

	out := filepath.Join(outDir, OutputName)
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("save png: %w", err)
	}
	return out, nil
}
