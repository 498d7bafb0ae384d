package text

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is the pixel size used when a descriptor does not name one.
const DefaultSize = 30

// Font is a parsed font descriptor.
type Font struct {
	// Family is the family list as written, e.g. "Figtree" or "Georgia, serif".
	Family string
	// Size is the pixel size.
	Size float64
	Bold bool
}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)px(?:/\S*)?$`)

// ParseFont parses a CSS-like font shorthand such as "bold 30px Figtree".
// Weight keywords are bold, bolder, semibold and numeric weights; 600 and above count as bold.
// A missing size falls back to DefaultSize and the remaining words form the family.
//
// Parameters:
//   - descriptor: the shorthand to parse
//
// Returns:
//   - Font: the parsed font
func ParseFont(descriptor string) Font {
	f := Font{Size: DefaultSize}
	var family []string

	for _, tok := range strings.Fields(descriptor) {
		lower := strings.ToLower(tok)
		if len(family) > 0 {
			family = append(family, tok)
			continue
		}

		switch lower {
		case "bold", "bolder", "semibold":
			f.Bold = true
			continue
		case "normal", "regular", "italic", "oblique", "lighter", "light":
			continue
		}
		if weight, err := strconv.Atoi(lower); err == nil {
			f.Bold = weight >= 600
			continue
		}
		if m := sizePattern.FindStringSubmatch(lower); m != nil {
			if size, err := strconv.ParseFloat(m[1], 64); err == nil && size > 0 {
				f.Size = size
			}
			continue
		}
		family = append(family, tok)
	}

	f.Family = strings.Trim(strings.Join(family, " "), `"'`)
	return f
}

type fontKey struct {
	family string
	bold   bool
}

var (
	parsedMu sync.Mutex
	parsed   = map[fontKey]*opentype.Font{}
)

// resolve maps the font's family list to one of the embedded faces and returns the parsed font.
// Unknown families use the Go fonts.
func (f Font) resolve() (*opentype.Font, error) {
	key := fontKey{family: genericFamily(f.Family), bold: f.Bold}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if otf, ok := parsed[key]; ok {
		return otf, nil
	}

	otf, err := opentype.Parse(faceData(key))
	if err != nil {
		return nil, err
	}
	parsed[key] = otf
	return otf, nil
}

func genericFamily(family string) string {
	for _, name := range strings.Split(family, ",") {
		name = strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
		switch name {
		case "serif", "times", "times new roman", "georgia", "latin modern roman":
			return "serif"
		case "sans-serif", "helvetica", "arial", "latin modern sans":
			return "sans-serif"
		case "monospace", "courier", "courier new", "latin modern mono":
			return "monospace"
		case "go mono":
			return "go mono"
		}
	}
	return ""
}

func faceData(key fontKey) []byte {
	switch key.family {
	case "serif":
		if key.bold {
			return lmroman10bold.TTF
		}
		return lmroman10regular.TTF
	case "sans-serif":
		if key.bold {
			return lmsans10bold.TTF
		}
		return lmsans10regular.TTF
	case "monospace":
		// latin modern ships no bold mono
		if key.bold {
			return gomonobold.TTF
		}
		return lmmono10regular.TTF
	case "go mono":
		if key.bold {
			return gomonobold.TTF
		}
		return gomono.TTF
	}
	if key.bold {
		return gobold.TTF
	}
	return goregular.TTF
}
