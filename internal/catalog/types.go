package catalog

// Program is a single installable entry from the catalog file.
type Program struct {
	Key               string // populated from the top-level object key
	Name              string
	Version           string
	DownloadURL       string
	InstallerFileName string
	ShortcutName      string
	Description       string
	// Executable is the file launched after unpacking when InstallerFileName
	// is an archive. Empty for plain installers.
	Executable string
}

// DisplayName falls back to the key when the catalog has no name.
func (p Program) DisplayName() string {
	if p.Name == "" {
		return p.Key
	}
	return p.Name
}

// entry mirrors one catalog object on the wire. Field names are the ones used
// by versions.json.
type entry struct {
	Name              string `json:"nome" toml:"nome"`
	Version           string `json:"versao_disponivel" toml:"versao_disponivel"`
	DownloadURL       string `json:"url_download" toml:"url_download"`
	InstallerFileName string `json:"nome_arquivo" toml:"nome_arquivo"`
	ShortcutName      string `json:"atalho_nome" toml:"atalho_nome"`
	Description       string `json:"descricao" toml:"descricao"`
	Executable        string `json:"executavel_nome" toml:"executavel_nome"`
}

func (e entry) program(key string) Program {
	return Program{
		Key:               key,
		Name:              e.Name,
		Version:           e.Version,
		DownloadURL:       e.DownloadURL,
		InstallerFileName: e.InstallerFileName,
		ShortcutName:      e.ShortcutName,
		Description:       e.Description,
		Executable:        e.Executable,
	}
}

// Catalog is the parsed catalog file.
type Catalog struct {
	// Programs is sorted by Key.
	Programs []Program
	// Rejected holds the entries that were skipped because they failed
	// validation.
	Rejected []*EntryError

	index map[string]int
}

// Get returns the program registered under key.
func (c *Catalog) Get(key string) (Program, bool) {
	if c == nil {
		return Program{}, false
	}
	i, ok := c.index[key]
	if !ok {
		return Program{}, false
	}
	return c.Programs[i], true
}

// Len returns the number of accepted programs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Programs)
}
