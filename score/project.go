package score

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-mutwo/config"
)

var ErrNoSaves = errors.New("no saves found")

const timestampLayout = "2006-01-02_15-04-05"

// SaveInfo describes one save of a project.
type SaveInfo struct {
	Filename  string
	Name      string // optional suffix after the timestamp
	Timestamp time.Time
}

// now is replaced in tests.
var now = time.Now

// ProjectsDir is <config dir>/projects.
func ProjectsDir() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projects"), nil
}

// ProjectDir is the folder holding the saves of projectName.
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, projectName), nil
}

// ListProjects returns the project names in alphabetical order.
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	projects := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// parseSaveName reads 2024-01-15_14-30-00.json or
// 2024-01-15_14-30-00_name.json.
func parseSaveName(filename string) (SaveInfo, bool) {
	if !strings.HasSuffix(filename, ".json") {
		return SaveInfo{}, false
	}
	baseName := strings.TrimSuffix(filename, ".json")
	if len(baseName) < len(timestampLayout) {
		return SaveInfo{}, false
	}
	ts, err := time.Parse(timestampLayout, baseName[:len(timestampLayout)])
	if err != nil {
		return SaveInfo{}, false
	}
	info := SaveInfo{Filename: filename, Timestamp: ts}
	if rest := baseName[len(timestampLayout):]; len(rest) > 1 && rest[0] == '_' {
		info.Name = rest[1:]
	}
	return info, true
}

// ListSaves returns the saves of a project, newest first. Files that
// do not follow the save naming are skipped.
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	saves := []SaveInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, ok := parseSaveName(entry.Name()); ok {
			saves = append(saves, info)
		}
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// SaveProject writes doc as a new timestamped save and returns its
// filename. An empty project name saves to "untitled".
func SaveProject(projectName, saveName string, doc *Document) (string, error) {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := now().Format(timestampLayout)
	if saveName != "" {
		filename += "_" + sanitizeFilename(saveName)
	}
	filename += ".json"
	if err := Save(filepath.Join(dir, filename), doc); err != nil {
		return "", err
	}
	return filename, nil
}

// LoadProject reads a save of the project. An empty filename picks the
// newest save.
func LoadProject(projectName, filename string) (*Document, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil {
			return nil, err
		}
		if len(saves) == 0 {
			return nil, fmt.Errorf("%w in project %s", ErrNoSaves, projectName)
		}
		filename = saves[0].Filename
	}

	return Load(filepath.Join(dir, filename))
}

// CreateProject makes an empty project.
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteSave removes one save.
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, filename))
}

// RenameSave changes the name part of a save and keeps its timestamp.
// It returns the new filename.
func RenameSave(projectName, oldFilename, newName string) (string, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return "", err
	}

	info, ok := parseSaveName(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}
	newFilename := info.Timestamp.Format(timestampLayout)
	if newName != "" {
		newFilename += "_" + sanitizeFilename(newName)
	}
	newFilename += ".json"

	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return "", err
	}
	return newFilename, nil
}

// sanitizeFilename drops or dashes characters that break paths.
func sanitizeFilename(name string) string {
	return strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	).Replace(name)
}

// DeleteProject removes a project with all its saves.
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RenameProject moves all saves of oldName to newName.
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	return os.Rename(oldDir, newDir)
}
