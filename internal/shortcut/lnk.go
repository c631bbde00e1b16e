package shortcut

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Shell Link Binary File Format (MS-SHLLINK) constants.
const (
	lnkHeaderSize = 0x4C

	hasLinkTargetIDList = 1 << 0
	hasLinkInfo         = 1 << 1
	hasName             = 1 << 2
	hasRelativePath     = 1 << 3
	hasWorkingDir       = 1 << 4
	hasArguments        = 1 << 5
	hasIconLocation     = 1 << 6
	isUnicode           = 1 << 7
	hasExpString        = 1 << 9

	volumeIDAndLocalBasePath = 1 << 0

	linkInfoHeaderUnicode = 0x24
	envBlockSignature     = 0xA0000001
	envBlockSize          = 0x314

	fileAttributeArchive = 0x20
	swShowNormal         = 1
)

var linkCLSID = []byte{0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

var (
	errNotShellLink = errors.New("not a shell link")
	errTruncated    = errors.New("truncated shell link")
)

var le = binary.LittleEndian

// shellLink holds the parts of a .lnk file that can name its target.
type shellLink struct {
	flags            uint32
	localBasePath    string
	commonPathSuffix string
	relativePath     string
	workingDir       string
	arguments        string
	envTarget        string
}

// target prefers the absolute LinkInfo path, then the environment-variable
// form, then the path relative to the shortcut's folder.
func (l *shellLink) target(dir string) string {
	switch {
	case l.localBasePath != "":
		return l.localBasePath + l.commonPathSuffix
	case l.envTarget != "":
		return expandWindowsEnv(l.envTarget)
	case l.relativePath != "":
		rel := filepath.FromSlash(strings.ReplaceAll(l.relativePath, `\`, "/"))
		if filepath.IsAbs(rel) {
			return rel
		}
		return filepath.Join(dir, rel)
	}
	return ""
}

func readShellLink(path string) (*shellLink, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseShellLink(data)
}

func parseShellLink(data []byte) (*shellLink, error) {
	if len(data) < lnkHeaderSize || le.Uint32(data) != lnkHeaderSize || !bytes.Equal(data[4:20], linkCLSID) {
		return nil, errNotShellLink
	}
	l := &shellLink{flags: le.Uint32(data[20:])}
	off := lnkHeaderSize

	if l.flags&hasLinkTargetIDList != 0 {
		if off+2 > len(data) {
			return nil, errTruncated
		}
		off += 2 + int(le.Uint16(data[off:]))
		if off > len(data) {
			return nil, errTruncated
		}
	}

	if l.flags&hasLinkInfo != 0 {
		if off+4 > len(data) {
			return nil, errTruncated
		}
		size := int(le.Uint32(data[off:]))
		if size < 0x1C || off+size > len(data) {
			return nil, errTruncated
		}
		if err := l.parseLinkInfo(data[off : off+size]); err != nil {
			return nil, err
		}
		off += size
	}

	strs := []struct {
		flag uint32
		dst  *string
	}{
		{hasName, nil},
		{hasRelativePath, &l.relativePath},
		{hasWorkingDir, &l.workingDir},
		{hasArguments, &l.arguments},
		{hasIconLocation, nil},
	}
	for _, s := range strs {
		if l.flags&s.flag == 0 {
			continue
		}
		if off > len(data) {
			return nil, errTruncated
		}
		str, n, err := readStringData(data[off:], l.flags&isUnicode != 0)
		if err != nil {
			return nil, err
		}
		off += n
		if s.dst != nil {
			*s.dst = str
		}
	}

	if l.flags&hasExpString != 0 && off <= len(data) {
		l.envTarget = findEnvTarget(data[off:])
	}
	return l, nil
}

func (l *shellLink) parseLinkInfo(b []byte) error {
	headerSize := le.Uint32(b[4:])
	if le.Uint32(b[8:])&volumeIDAndLocalBasePath == 0 {
		return nil
	}
	if headerSize >= linkInfoHeaderUnicode && len(b) >= linkInfoHeaderUnicode {
		if off := le.Uint32(b[28:]); off != 0 {
			l.localBasePath = utf16z(b, off)
			if off := le.Uint32(b[32:]); off != 0 {
				l.commonPathSuffix = utf16z(b, off)
			}
			return nil
		}
	}
	l.localBasePath = ansiz(b, le.Uint32(b[16:]))
	l.commonPathSuffix = ansiz(b, le.Uint32(b[24:]))
	return nil
}

// readStringData decodes one counted StringData structure and returns the
// number of bytes it occupied.
func readStringData(b []byte, unicode bool) (string, int, error) {
	if len(b) < 2 {
		return "", 0, errTruncated
	}
	count := int(le.Uint16(b))
	if !unicode {
		if 2+count > len(b) {
			return "", 0, errTruncated
		}
		return decodeANSI(b[2 : 2+count]), 2 + count, nil
	}
	if 2+2*count > len(b) {
		return "", 0, errTruncated
	}
	units := make([]uint16, count)
	for i := range units {
		units[i] = le.Uint16(b[2+2*i:])
	}
	return string(utf16.Decode(units)), 2 + 2*count, nil
}

// findEnvTarget scans the ExtraData blocks for the environment variable
// target (e.g. %ProgramFiles%\App\app.exe).
func findEnvTarget(b []byte) string {
	for off := 0; off+8 <= len(b); {
		size := int(le.Uint32(b[off:]))
		if size < 8 || off+size > len(b) {
			return ""
		}
		if le.Uint32(b[off+4:]) == envBlockSignature && size >= envBlockSize {
			block := b[off : off+size]
			if s := utf16z(block, 8+260); s != "" {
				return s
			}
			return ansiz(block, 8)
		}
		off += size
	}
	return ""
}

var windowsEnvRef = regexp.MustCompile(`%([^%]+)%`)

func expandWindowsEnv(s string) string {
	return windowsEnvRef.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := os.LookupEnv(ref[1 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}

// ansiz reads a NUL-terminated string in the Windows ANSI code page.
func ansiz(b []byte, off uint32) string {
	if off == 0 || int(off) >= len(b) {
		return ""
	}
	s := b[off:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return decodeANSI(s)
}

// utf16z reads a NUL-terminated UTF-16LE string.
func utf16z(b []byte, off uint32) string {
	var units []uint16
	for i := int(off); i+1 < len(b); i += 2 {
		u := le.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

func decodeANSI(b []byte) string {
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func encodeANSI(s string) []byte {
	b, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return b
}

func encodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(units))
	for i, u := range units {
		le.PutUint16(b[2*i:], u)
	}
	return b
}

// marshalShellLink builds a minimal .lnk whose LinkInfo carries target as the
// local base path, in both ANSI and Unicode form.
func marshalShellLink(target string) []byte {
	var buf bytes.Buffer

	header := make([]byte, lnkHeaderSize)
	le.PutUint32(header[0:], lnkHeaderSize)
	copy(header[4:20], linkCLSID)
	le.PutUint32(header[20:], hasLinkInfo|hasWorkingDir|isUnicode)
	le.PutUint32(header[24:], fileAttributeArchive)
	le.PutUint32(header[60:], swShowNormal)
	buf.Write(header)

	// VolumeID: size, DRIVE_FIXED, serial 0, label offset, empty label.
	volume := []byte{17, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0, 16, 0, 0, 0, 0}
	ansi := encodeANSI(target)
	uni := encodeUTF16(target)

	volOff := linkInfoHeaderUnicode
	localOff := volOff + len(volume)
	suffixOff := localOff + len(ansi) + 1
	uLocalOff := suffixOff + 1
	uSuffixOff := uLocalOff + len(uni) + 2
	size := uSuffixOff + 2

	info := make([]byte, size)
	le.PutUint32(info[0:], uint32(size))
	le.PutUint32(info[4:], linkInfoHeaderUnicode)
	le.PutUint32(info[8:], volumeIDAndLocalBasePath)
	le.PutUint32(info[12:], uint32(volOff))
	le.PutUint32(info[16:], uint32(localOff))
	le.PutUint32(info[24:], uint32(suffixOff))
	le.PutUint32(info[28:], uint32(uLocalOff))
	le.PutUint32(info[32:], uint32(uSuffixOff))
	copy(info[volOff:], volume)
	copy(info[localOff:], ansi)
	copy(info[uLocalOff:], uni)
	buf.Write(info)

	wd := encodeUTF16(filepath.Dir(target))
	count := make([]byte, 2)
	le.PutUint16(count, uint16(len(wd)/2))
	buf.Write(count)
	buf.Write(wd)

	// TerminalBlock.
	buf.Write([]byte{0, 0, 0, 0})
	return buf.Bytes()
}
