package load

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	contentsFile   = "contents"
	versionFile    = ".xccurrentversion"
	versionKey     = "_XCCurrentVersionName"
	modelExt       = ".xcdatamodel"
	versionedModel = ".xcdatamodeld"
)

// ContentsPath returns the path of the contents document for the given data
// model path. Regular files are returned as is. A directory is treated as an
// .xcdatamodel holding a contents file, unless it is an .xcdatamodeld bundle,
// in which case the current model version is used.
func ContentsPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	if filepath.Ext(path) != versionedModel {
		return filepath.Join(path, contentsFile), nil
	}
	version, err := currentVersion(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(path, version, contentsFile), nil
}

// currentVersion returns the model directory name selected by the bundle's
// version file. Bundles without a usable version file fall back to the last
// model in lexical order.
func currentVersion(bundle string) (string, error) {
	if name, ok := readVersionFile(filepath.Join(bundle, versionFile)); ok {
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return "", fmt.Errorf("load: invalid model version %q in %s", name, bundle)
		}
		return name, nil
	}
	matches, err := filepath.Glob(filepath.Join(bundle, "*"+modelExt))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("load: no %s found in %s", modelExt, bundle)
	}
	sort.Strings(matches)
	return filepath.Base(matches[len(matches)-1]), nil
}

// plist is the subset of a property list needed to read the version file.
type plist struct {
	Dict struct {
		Entries []struct {
			XMLName xml.Name
			Value   string `xml:",chardata"`
		} `xml:",any"`
	} `xml:"dict"`
}

func readVersionFile(path string) (string, bool) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var p plist
	if err := xml.Unmarshal(buf, &p); err != nil {
		return "", false
	}
	entries := p.Dict.Entries
	for i := 0; i+1 < len(entries); i++ {
		if entries[i].XMLName.Local == "key" && entries[i].Value == versionKey && entries[i+1].XMLName.Local == "string" {
			return entries[i+1].Value, entries[i+1].Value != ""
		}
	}
	return "", false
}
