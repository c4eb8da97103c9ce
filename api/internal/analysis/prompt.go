package analysis

// ForensicPrompt is sent verbatim as the text part of every provider call.
// The provider's answer format (verdict word, NN% score) depends on it.
const ForensicPrompt = `You are an expert forensic digital media analyst specializing in deepfake detection. Analyze the provided media for inconsistencies in:
1. Lighting & Shadows: Check if light sources on the subject match the background.
2. Facial Artifacts: Look for 'ghosting' around edges, unnatural eye reflections, or irregular blinking patterns.
3. Texture & Noise: Identify inconsistent skin textures or 'digital noise' that suggests GAN/Diffusion generation.
4. Audio-Visual Sync: (For Video) Check if lip movements align perfectly with the phonemes in the audio.
Provide a final verdict: REAL or FAKE, followed by a confidence score (0-100%) and a concise technical explanation.`

// NoAnalysisText replaces an empty provider answer.
const NoAnalysisText = "No analysis returned"

var allowedMIME = map[string]struct{}{
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"video/mp4":       {},
	"video/quicktime": {},
	"video/x-msvideo": {},
}

// AllowedMIMETypes lists the accepted declared media types in a stable order.
func AllowedMIMETypes() []string {
	return []string{"image/jpeg", "image/jpg", "image/png", "video/mp4", "video/quicktime", "video/x-msvideo"}
}

func IsAllowedMIME(mt string) bool {
	_, ok := allowedMIME[mt]
	return ok
}
