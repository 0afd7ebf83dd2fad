package handler

import (
	"io/fs"
	"net/http"
	"os"
)

// Uploads serves stored photos from root without directory listings.
func Uploads(root string) http.Handler {
	return http.StripPrefix("/uploads/", http.FileServerFS(filesOnly{os.DirFS(root)}))
}

type filesOnly struct {
	fs.FS
}

func (f filesOnly) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
