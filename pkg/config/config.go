package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Worklog   WorklogConfig
	Calculate CalculateConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type WorklogConfig struct {
	Dir            string
	WorklogSheet   string
	PeopleSheet    string
	TypeRenames    map[string]string
	UserRenames    map[string]string
	ProjectRenames map[string]string
	UsersToDrop    []string
	ProjectsToDrop []string
}

type CalculateConfig struct {
	IssueLeaderShare   float64
	ProjectLeaderShare float64
	MinYearlyHours     float64
	ClipLimit          float64
	MeetingWords       []string
	LearningWords      []string
	ManagementWords    []string

	// DimensionWeights is parsed and validated but currently inert: the
	// performance score is an unweighted mean across dimensions.
	DimensionWeights map[string]float64
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Worklog: WorklogConfig{
			Dir:            getEnv("WORKLOG_DIR", "./data/worklogs"),
			WorklogSheet:   getEnv("WORKLOG_SHEET", "Worklogs"),
			PeopleSheet:    getEnv("PEOPLE_SHEET", "People"),
			TypeRenames:    getEnvAsMap("TYPE_RENAMES", map[string]string{"fehler": "bug"}),
			UserRenames:    getEnvAsMap("USER_RENAMES", map[string]string{}),
			ProjectRenames: getEnvAsMap("PROJECT_RENAMES", map[string]string{}),
			UsersToDrop:    getEnvAsList("USERS_TO_DROP", nil),
			ProjectsToDrop: getEnvAsList("PROJECTS_TO_DROP", nil),
		},
		Calculate: CalculateConfig{
			IssueLeaderShare:   getEnvAsFloat("ISSUE_LEADER_SHARE", 0.7),
			ProjectLeaderShare: getEnvAsFloat("PROJECT_LEADER_SHARE", 0.5),
			MinYearlyHours:     getEnvAsFloat("MIN_YEARLY_HOURS", 3*22*8),
			ClipLimit:          getEnvAsFloat("CLIP_LIMIT", 1),
			MeetingWords:       getEnvAsList("MEETING_WORDS", []string{"meet", "conversation", "team building"}),
			LearningWords:      getEnvAsList("LEARNING_WORDS", []string{"learn", "research", "study", "course"}),
			ManagementWords:    getEnvAsList("MANAGEMENT_WORDS", []string{"organiz", "coordinat", "interview", "train", "education"}),
			DimensionWeights:   getEnvAsWeights("DIMENSION_WEIGHTS"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a lowercased list
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}

// getEnvAsMap gets a comma-separated "old:new" environment variable as a lowercased map
func getEnvAsMap(key string, defaultValue map[string]string) map[string]string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		from := strings.ToLower(strings.TrimSpace(kv[0]))
		to := strings.ToLower(strings.TrimSpace(kv[1]))
		if from != "" && to != "" {
			result[from] = to
		}
	}
	return result
}

// getEnvAsWeights parses "dimension:weight" pairs; invalid entries are skipped
func getEnvAsWeights(key string) map[string]float64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	result := make(map[string]float64)
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			continue
		}
		result[strings.ToLower(strings.TrimSpace(kv[0]))] = weight
	}
	return result
}
