// Package prompt implements the prompt assembler shared by template
// generation and the live session preview, plus the narrative parser that
// maps free text onto known scenes, characters, events, and style values.
package prompt

// Preset is a labeled style preset. Label is the short name shown to the
// admin and matched by the parser; Value is the full prompt fragment.
type Preset struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Vocabulary is the style vocabulary shared by the options endpoint and the
// narrative parser.
type Vocabulary struct {
	Presets         []Preset `json:"presets"`
	Compositions    []string `json:"compositions"`
	Lightings       []string `json:"lightings"`
	Moods           []string `json:"moods"`
	Cameras         []string `json:"cameras"`
	PostProcessings []string `json:"post_processings"`
}

// StylePresets are the built-in labeled presets.
var StylePresets = []Preset{
	{Label: "Cinematic", Value: "cinematic film still, dramatic lighting, rich depth of field"},
	{Label: "Silver Age Comic", Value: "silver age comic panel, ben-day dots, bold black inking, flat CMYK palette"},
	{Label: "Modern Graphic Novel", Value: "modern graphic novel spread, layered digital shading, textured gradients, moody rim light"},
	{Label: "Superhero Splash Page", Value: "dynamic superhero splash page, exaggerated foreshortening, kinetic speed lines, explosive impact bursts"},
	{Label: "Noir Comic", Value: "noir graphic novel styling, heavy chiaroscuro, rain-soaked alley light, selective spot color"},
	{Label: "Kirby Cosmic", Value: "jack kirby-inspired cosmic comic art, thick contour lines, kirby crackle energy bubbles, high-saturation hues"},
	{Label: "Manga Inked", Value: "shonen manga double spread, crisp screentones, dynamic speed lines, expressive ink wash shadows"},
	{Label: "Neon Cyberpunk Comic", Value: "cyberpunk comic panel, neon rim lights, holographic signage, wet asphalt reflections"},
	{Label: "Painterly", Value: "painterly illustration, expressive brushstrokes, layered pigments"},
	{Label: "Dark Fantasy", Value: "dark fantasy concept art, moody atmosphere, intricate gothic detail"},
	{Label: "Retro Sci-Fi", Value: "retro sci-fi pulp cover, neon gradients, chrome highlights"},
	{Label: "Western Splash", Value: "western comic splash page, sun-bleached palette, dusty motion trails, cinematic lens flare"},
	{Label: "Indie Risograph", Value: "indie risograph comic aesthetic, duotone ink, grainy halftones, off-register charm"},
	{Label: "Ukiyo-e Woodblock", Value: "ukiyo-e woodblock print, flat perspective, bold outlines, muted natural colors"},
	{Label: "Art Deco", Value: "art deco poster, geometric shapes, gold leaf accents, elegant typography"},
	{Label: "Vaporwave", Value: "vaporwave aesthetic, glitch art, pastel gradients, greek statues, grid backgrounds"},
	{Label: "Gothic Horror", Value: "gothic horror illustration, victorian attire, fog, cobwebs, muted colors"},
	{Label: "Steampunk", Value: "steampunk illustration, brass gears, steam, victorian fashion, sepia tones"},
}

// CompositionOptions are the built-in composition choices.
var CompositionOptions = []string{
	"Wide establishing shot",
	"Over-the-shoulder action",
	"Intimate portrait",
	"Two-shot standoff",
	"Crowd chaos with central hero",
	"Low-angle power pose",
	"High-angle vulnerability",
	"Rule-of-thirds hero off-center",
	"Symmetrical corridor framing",
	"Dutch angle tension",
	"Foreground occlusion peeking",
	"Depth-stacked silhouettes",
	"Vignette spotlight on subject",
	"Tracking run-and-gun feel",
	"Tabletop tactical map close-up",
	"Crossfire triangulation",
	"Portal doorway reveal",
	"Mirror or puddle reflection frame",
	"Split-screen montage",
	"Fisheye lens distortion",
	"Isometric view",
	"Top-down map view",
}

// LightingOptions are the built-in lighting choices.
var LightingOptions = []string{
	"Golden hour rim light",
	"Cold moonlight with mist",
	"Torchlit glow and soot",
	"Neon spill from signs",
	"Volumetric god rays",
	"Strobe burst in darkness",
	"Overcast softbox sky",
	"Backlit silhouette flare",
	"Candle cluster warmth",
	"Lightning flash accents",
	"Bi-color teal and amber",
	"Harsh interrogation top-light",
	"Under-lighting campfire",
	"Flickering CRT spill",
	"Subterranean bioluminescence",
	"Spell aura bloom",
	"Emergency red strobes",
	"Starfield key with soft fill",
	"Bioluminescent forest glow",
	"Underwater caustic patterns",
	"Disco ball reflections",
	"Laser grid",
}

// MoodOptions are the built-in mood choices.
var MoodOptions = []string{
	"Triumphant",
	"Eerie suspense",
	"Solemn",
	"Desperate last stand",
	"Grim resolve",
	"Whimsical mischief",
	"Sacred awe",
	"Paranoid dread",
	"Stoic determination",
	"Melancholy quiet",
	"Ferocious blood-rush",
	"Hopeful respite",
	"Shock and disbelief",
	"Righteous fury",
	"Tense negotiation",
	"Black comedy",
	"Noble sacrifice",
	"Wild exultation",
	"Romantic longing",
	"Nostalgic warmth",
	"Cold indifference",
	"Chaotic panic",
}

// CameraOptions are the built-in camera choices.
var CameraOptions = []string{
	"35mm lens close-up",
	"24mm wide hero shot",
	"85mm portrait compression",
	"14mm ultra-wide cavern",
	"Macro detail insert",
	"Drone top-down",
	"Low dolly push-in",
	"Handheld jitter chase",
	"Static tripod tableau",
	"Crane rise reveal",
	"Rack focus pull",
	"Long exposure motion smear",
	"Slow shutter torch trails",
	"Overcranked slow motion",
	"POV helmet cam",
	"Gimbal glide through doorway",
	"Tilt-shift miniatures",
	"Fisheye claustrophobia",
	"Thermal imaging",
	"Night vision grain",
	"Security camera footage",
}

// PostProcessingOptions are the built-in post-processing choices.
var PostProcessingOptions = []string{
	"High-contrast grading",
	"Painterly brush texture",
	"Film grain and gate weave",
	"Bleach bypass steel",
	"Soft bloom and halation",
	"Cross-process retro",
	"Sepia parchment age",
	"Cool shadows warm highlights",
	"Split-toned dusk",
	"Vignette and subtle chromatic aberration",
	"CRT scanline composite",
	"Inked comic outlines",
	"Watercolor wash edges",
	"Desaturated war grime",
	"Neon synthwave glow",
	"Photochemical print fade",
	"Gritty LUT with crushed blacks",
	"Clean HDR pop",
	"Glitch art artifacts",
	"VHS tracking error",
	"Halftone pattern overlay",
}

// DefaultVocabulary returns the built-in style vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Presets:         StylePresets,
		Compositions:    CompositionOptions,
		Lightings:       LightingOptions,
		Moods:           MoodOptions,
		Cameras:         CameraOptions,
		PostProcessings: PostProcessingOptions,
	}
}
