package format

// Format keys shipped with the application
const (
	KeyMP4   = "mp4"
	KeyMP3   = "mp3"
	KeyAAC   = "aac"
	KeyAAC96 = "aac96"
	KeyAAC64 = "aac64"
	KeyAAC32 = "aac32"
)

// Engine selectors and codecs
const (
	SelectorBest      = "best"
	SelectorBestAudio = "bestaudio/best"

	CodecMP3 = "mp3"
	CodecM4A = "m4a"
)

// DefaultKey is preselected in the UI.
const DefaultKey = KeyMP4

// DefaultSpecs is the static format table.
var DefaultSpecs = []Spec{
	{
		Key:         KeyMP4,
		DisplayName: "mp4 (best quality)",
		Engine:      EngineOptions{Format: SelectorBest},
	},
	audioSpec(KeyMP3, "mp3 (192kbps)", CodecMP3, "192"),
	audioSpec(KeyAAC, "aac (original)", CodecM4A, "0"),
	audioSpec(KeyAAC96, "aac96 (~3.3MB/5min)", CodecM4A, "96"),
	audioSpec(KeyAAC64, "aac64 (~2.2MB/5min)", CodecM4A, "64"),
	audioSpec(KeyAAC32, "aac32 (~1.1MB/5min)", CodecM4A, "32"),
}

func audioSpec(key, name, codec, quality string) Spec {
	return Spec{
		Key:         key,
		DisplayName: name,
		Engine: EngineOptions{
			Format:       SelectorBestAudio,
			ExtractAudio: true,
			AudioCodec:   codec,
			AudioQuality: quality,
		},
		OutputCodec: codec,
	}
}

// Default returns the catalog built from DefaultSpecs.
func Default() *Catalog {
	c, err := NewCatalog(DefaultSpecs...)
	if err != nil {
		// DefaultSpecs is static; a failure here is a programming error
		panic(err)
	}
	return c
}
