package leonardo

// UserInfo is the response of GET /me
type UserInfo struct {
	User         User          `json:"user"`
	Subscription *Subscription `json:"subscription"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Subscription struct {
	Plan            string `json:"plan"`
	TokensRemaining int    `json:"tokensRemaining"`
	TotalTokens     int    `json:"totalTokens"`
	TokensUsed      int    `json:"tokensUsed"`
	NextRenewalDate string `json:"nextRenewalDate"`
}

// Model is a platform generation model
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CustomModel is a user-trained model (lora)
type CustomModel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// GenerationRequest is the payload of POST /generations. The API mixes
// snake_case and camelCase field names; the tags follow the wire format,
// not a convention.
type GenerationRequest struct {
	Prompt                string       `json:"prompt"`
	Width                 int          `json:"width"`
	Height                int          `json:"height"`
	NumImages             int          `json:"num_images"`
	ModelID               string       `json:"modelId,omitempty"`
	NegativePrompt        string       `json:"negative_prompt,omitempty"`
	GuidanceScale         float64      `json:"guidance_scale,omitempty"`
	PresetStyle           string       `json:"presetStyle,omitempty"`
	Alchemy               bool         `json:"alchemy,omitempty"`
	PhotoReal             bool         `json:"photoReal,omitempty"`
	PhotoRealVersion      string       `json:"photoRealVersion,omitempty"`
	InitImageID           string       `json:"init_image_id,omitempty"`
	InitStrength          *float64     `json:"init_strength,omitempty"`
	InitGenerationImageID string       `json:"init_generation_image_id,omitempty"`
	ImagePrompts          []string     `json:"imagePrompts,omitempty"`
	Controlnets           []Controlnet `json:"controlnets,omitempty"`
	IsPhoenix             bool         `json:"isPhoenix,omitempty"`
	Contrast              float64      `json:"contrast,omitempty"`
}

// Controlnet is one image-guidance entry in a generation request
type Controlnet struct {
	InitImageID    string `json:"initImageId"`
	InitImageType  string `json:"initImageType"`
	PreprocessorID int    `json:"preprocessorId"`
	StrengthType   string `json:"strengthType"`
}

// GeneratedImage is one output image of a completed generation
type GeneratedImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Generation is the response of GET /generations/{id}
type Generation struct {
	Status      string           `json:"status"`
	Error       string           `json:"error"`
	Generations []GeneratedImage `json:"generations"`
}

// MotionGeneration is the response of GET /generations-motion-svd/{id}
type MotionGeneration struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	VideoURL string `json:"videoUrl"`
}

// Variation is the response of GET /variations/{kind}/{id}. Depending on
// the variation kind the result URL arrives as imageUrl or url.
type Variation struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	ImageURL string `json:"imageUrl"`
	URL      string `json:"url"`
}

// ResultURL returns whichever result field the API populated
func (v *Variation) ResultURL() string {
	if v.ImageURL != "" {
		return v.ImageURL
	}
	return v.URL
}

// InitImage identifies an uploaded init image
type InitImage struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// PricingParams is the IMAGE_GENERATION block of POST /pricing-calculator
type PricingParams struct {
	ImageHeight    int  `json:"imageHeight"`
	ImageWidth     int  `json:"imageWidth"`
	NumImages      int  `json:"numImages"`
	InferenceSteps int  `json:"inferenceSteps"`
	PromptMagic    bool `json:"promptMagic"`
	AlchemyMode    bool `json:"alchemyMode"`
	HighResolution bool `json:"highResolution"`
	IsModelCustom  bool `json:"isModelCustom"`
	IsSDXL         bool `json:"isSDXL"`
	IsPhoenix      bool `json:"isPhoenix"`
}
