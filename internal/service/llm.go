package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// LocalizedText carries the english and indonesian variants of a generated
// string, matching the response schema the model is asked for.
type LocalizedText struct {
	En string `json:"en"`
	ID string `json:"id"`
}

// RecipeSuggestion is the structured recipe returned by the LLM.
type RecipeSuggestion struct {
	Recipe struct {
		Metadata struct {
			Title       LocalizedText `json:"title"`
			Description LocalizedText `json:"description"`
		} `json:"metadata"`
		Ingredients []struct {
			Name     LocalizedText `json:"name"`
			Quantity float64       `json:"quantity"`
			Unit     LocalizedText `json:"unit"`
		} `json:"ingredients"`
		Instructions []struct {
			Step        int           `json:"step"`
			Description LocalizedText `json:"description"`
		} `json:"instructions"`
		NutritionInfoPerServing struct {
			Calories       float64 `json:"calories"`
			Macronutrients struct {
				ProteinGrams       float64 `json:"protein_grams"`
				CarbohydratesGrams float64 `json:"carbohydrates_grams"`
				FatGrams           float64 `json:"fat_grams"`
			} `json:"macronutrients"`
		} `json:"nutrition_info_per_serving"`
	} `json:"recipe"`
}

// LLMService talks to a Gemini-style generateContent API. It implements
// CalorieOracle; every call degrades to an empty result on transport or
// parse failure so a flaky model never fails a log update.
type LLMService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewLLMService creates an LLMService from the environment.
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("GEMINI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	return NewLLMServiceWithConfig(apiKey, os.Getenv("GEMINI_API_URL")), nil
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// NewLLMServiceWithConfig creates an LLMService against an explicit
// endpoint. Tests point it at an httptest server.
func NewLLMServiceWithConfig(apiKey, apiURL string) *LLMService {
	if apiURL == "" {
		apiURL = defaultGeminiURL
	}
	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

var _ CalorieOracle = (*LLMService)(nil)

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

func newGenerateRequest(prompt string, cfg *generationConfig) generateRequest {
	return generateRequest{
		Contents:         []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		GenerationConfig: cfg,
	}
}

// generate sends a prompt and returns the first candidate's text.
func (s *LLMService) generate(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	jsonData, err := json.Marshal(newGenerateRequest(prompt, cfg))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Candidates []struct {
			Content generateContent `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// EstimateCalories returns a per-item calorie estimate for the given food
// and activity names in a single batched call. Both lists empty
// short-circuits without contacting the service.
func (s *LLMService) EstimateCalories(ctx context.Context, foodNames, activityNames []string, weight, height float64) CalorieEstimate {
	if len(foodNames) == 0 && len(activityNames) == 0 {
		return CalorieEstimate{Food: []EstimatedItem{}, Activity: []EstimatedItem{}}
	}

	prompt := fmt.Sprintf(`I want an estimate of the calories for the following lists of food and activities:

Food: %s
Activities: %s

For a person weighing %.1f kg with a height of %.1f cm.

Estimate the calories consumed per food item and the calories burned per activity, using realistic values from common calorie references.

Respond with JSON of the shape {"food":[{"name":"...","calories":0}],"activity":[{"name":"...","calories":0}]}. Do not rename or add any food or activity.`,
		strings.Join(foodNames, ", "), strings.Join(activityNames, ", "), weight, height)

	text, err := s.generate(ctx, prompt, &generationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      0.1,
		TopP:             0.8,
		TopK:             10,
	})
	if err != nil {
		log.Printf("calorie estimation failed: %v", err)
		return CalorieEstimate{Food: []EstimatedItem{}, Activity: []EstimatedItem{}}
	}

	var estimate CalorieEstimate
	if err := json.Unmarshal([]byte(text), &estimate); err != nil {
		log.Printf("failed to parse calorie estimate: %v", err)
		return CalorieEstimate{Food: []EstimatedItem{}, Activity: []EstimatedItem{}}
	}
	if estimate.Food == nil {
		estimate.Food = []EstimatedItem{}
	}
	if estimate.Activity == nil {
		estimate.Activity = []EstimatedItem{}
	}
	return estimate
}

// GenerateHealthReport produces a narrative health analysis. An empty
// string means no report was produced; callers must not cache it.
func (s *LLMService) GenerateHealthReport(ctx context.Context, metrics HealthMetrics, language string) string {
	var prompt string
	if language == "id" {
		prompt = fmt.Sprintf(`Saya ingin mendapatkan analisis kesehatan berdasarkan data berikut:

- BMR (Basal Metabolic Rate): %.0f cal
- TDEE (Total Daily Energy Expenditure): %.0f cal
- Total Kalori Masuk: %.0f cal
- Total Kalori Keluar: %.0f cal
- Berat Badan: %.1f kg
- Tinggi Badan: %.1f cm
- BMI: %.1f
- Goal: %s berat badan

Mohon berikan laporan yang mencakup:
1. Apakah pengguna berada dalam kondisi surplus, defisit, atau seimbang berdasarkan TDEE, dan apakah masih dalam batas aman.
2. Kondisi BMI pengguna.
3. Saran praktis harian untuk mencapai goal tersebut.

Catatan: jangan menyarankan konsultasi ke ahli gizi atau dokter, jangan menyarankan alat pelacak kebugaran, fokus pada pola makan dan aktivitas fisik, dan jawab hanya dalam bentuk paragraf tanpa special character.`,
			metrics.BMR, metrics.TDEE, metrics.TotalCaloriesIn, metrics.TotalCaloriesOut, metrics.Weight, metrics.Height, metrics.BMI, metrics.Goal)
	} else {
		prompt = fmt.Sprintf(`I want to get a health analysis based on the following data:

- BMR (Basal Metabolic Rate): %.0f cal
- TDEE (Total Daily Energy Expenditure): %.0f cal
- Total Calories In: %.0f cal
- Total Calories Out: %.0f cal
- Weight: %.1f kg
- Height: %.1f cm
- BMI: %.1f
- Goal: %s weight

Please provide a report that includes:
1. Whether the user is in a surplus, deficit, or balanced state based on TDEE, and whether it is within a safe range.
2. The user's BMI condition.
3. Practical daily tips to achieve their goal.

Notes: do not recommend consulting a nutritionist or doctor, do not recommend fitness tracking devices, focus solely on diet and physical activity, and format the response as a paragraph only, without any special characters.`,
			metrics.BMR, metrics.TDEE, metrics.TotalCaloriesIn, metrics.TotalCaloriesOut, metrics.Weight, metrics.Height, metrics.BMI, metrics.Goal)
	}

	text, err := s.generate(ctx, prompt, &generationConfig{
		Temperature:     0.3,
		TopP:            0.5,
		TopK:            10,
		MaxOutputTokens: 800,
	})
	if err != nil {
		log.Printf("health report generation failed: %v", err)
		return ""
	}
	return text
}

// GenerateRecipe suggests a recipe matched to the user's daily calorie
// needs and goal. Returns nil when generation fails.
func (s *LLMService) GenerateRecipe(ctx context.Context, tdee float64, goal, language string) *RecipeSuggestion {
	if language == "" {
		language = "en"
	}

	prompt := fmt.Sprintf(`Recommend a healthy recipe based on my health data:

- Daily calorie needs (TDEE): %.0f calories.
- Macronutrient distribution: 50%% carbohydrates, 20%% protein, 30%% fat.
- Goal: %s weight.

The recipe must fit my daily calorie needs and the macronutrient distribution, and include:
1. A complete ingredient list with quantities.
2. Clear, easy-to-follow cooking steps.
3. Nutrition facts per serving: total calories, protein, carbohydrates and fat.
4. A short description of why this recipe suits me.

Respond with JSON of the shape {"recipe":{"metadata":{"title":{"en":"","id":""},"description":{"en":"","id":""}},"ingredients":[{"name":{"en":"","id":""},"quantity":0,"unit":{"en":"","id":""}}],"instructions":[{"step":1,"description":{"en":"","id":""}}],"nutrition_info_per_serving":{"calories":0,"macronutrients":{"protein_grams":0,"carbohydrates_grams":0,"fat_grams":0}}}}. Answer in the %q language.`,
		tdee, goal, language)

	text, err := s.generate(ctx, prompt, &generationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      0.5,
		TopP:             0.7,
		TopK:             40,
		MaxOutputTokens:  1000,
	})
	if err != nil {
		log.Printf("recipe generation failed: %v", err)
		return nil
	}

	var recipe RecipeSuggestion
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		log.Printf("failed to parse recipe suggestion: %v", err)
		return nil
	}
	return &recipe
}
