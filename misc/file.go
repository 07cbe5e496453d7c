package misc

import (
	"io"
	"os"
	"path/filepath"

	"github.com/juju/errors"
)

func ReadFile(fileName string) ([]byte, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	// open file for reading
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to open %s", fileName)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to read %s", fileName)
	}
	return fileBytes, nil
}

func WriteFile(fileName string, contents []byte) (int, error) {
	if fileName == "" {
		return 0, errors.New("no filename supplied")
	}
	// create/truncate file for writing
	file, err := os.Create(fileName)
	if err != nil {
		return 0, errors.Annotatef(err, "unable to create file %s", fileName)
	}
	// write contents to open file
	bytesWritten, err := file.Write(contents)
	if err != nil {
		file.Close()
		return bytesWritten, errors.Annotatef(err, "unable to write file %s", fileName)
	}
	// close file
	err = file.Close()
	if err != nil {
		return bytesWritten, errors.Annotatef(err, "unable to close file %s", fileName)
	}

	return bytesWritten, nil
}

// EnsureDirectory creates path (and parents) when it does not exist yet
func EnsureDirectory(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.MkdirAll(path, os.ModePerm); err != nil {
			return errors.Annotatef(err, "unable to create folder %s", path)
		}
	}
	return nil
}

// CopyFile copies source into directory keeping its base name
func CopyFile(source string, directory string) error {
	contents, err := ReadFile(source)
	if err != nil {
		return err
	}
	bytesWritten, err := WriteFile(filepath.Join(directory, filepath.Base(source)), contents)
	if err != nil {
		return err
	}
	if bytesWritten != len(contents) {
		return errors.Errorf("short write copying %s: %d of %d bytes", source, bytesWritten, len(contents))
	}
	return nil
}
