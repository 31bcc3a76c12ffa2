//
// Copyright (C) 2025 The answer-eval authors. All rights reserved.
//
// answer-eval is licensed under the Apache License Version 2.0.
//

package answerkey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is one of the six ordered Bloom cognitive-demand categories.
type Level int

const (
	// LevelUnknown represents an unrecognized Bloom level.
	LevelUnknown Level = iota
	// LevelRemember is the lowest cognitive level.
	LevelRemember
	// LevelUnderstand follows Remember.
	LevelUnderstand
	// LevelApply follows Understand.
	LevelApply
	// LevelAnalyze follows Apply.
	LevelAnalyze
	// LevelEvaluate follows Analyze.
	LevelEvaluate
	// LevelCreate is the highest cognitive level.
	LevelCreate
)

// Levels lists the six Bloom levels in cognitive order.
var Levels = []Level{
	LevelRemember,
	LevelUnderstand,
	LevelApply,
	LevelAnalyze,
	LevelEvaluate,
	LevelCreate,
}

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelRemember:
		return "Remember"
	case LevelUnderstand:
		return "Understand"
	case LevelApply:
		return "Apply"
	case LevelAnalyze:
		return "Analyze"
	case LevelEvaluate:
		return "Evaluate"
	case LevelCreate:
		return "Create"
	default:
		return "Unknown"
	}
}

// ParseLevel resolves a level name to a Level, ignoring case and surrounding space.
// Unrecognized names yield LevelUnknown.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "remember":
		return LevelRemember
	case "understand":
		return LevelUnderstand
	case "apply":
		return LevelApply
	case "analyze", "analyse":
		return LevelAnalyze
	case "evaluate":
		return LevelEvaluate
	case "create":
		return LevelCreate
	default:
		return LevelUnknown
	}
}

// Valid reports whether the level is one of the six Bloom categories.
func (l Level) Valid() bool {
	return l >= LevelRemember && l <= LevelCreate
}

// Distance returns the absolute distance between two levels in the six-level ordering.
// The result is meaningful only when both levels are valid.
func (l Level) Distance(other Level) int {
	d := int(l) - int(other)
	if d < 0 {
		d = -d
	}
	return d
}

// MarshalJSON encodes the level by name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes the level from its name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal bloom level: %w", err)
	}
	*l = ParseLevel(raw)
	return nil
}
