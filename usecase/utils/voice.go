package utils

import (
	"englishtalk/domain"
	"regexp"
	"strings"
)

var (
	femaleVoicePattern = regexp.MustCompile(`(?i)Google US English|Microsoft Zira|Female`)
	maleVoicePattern   = regexp.MustCompile(`(?i)Google US English|Microsoft David|Male`)

	// symbols the synthesiser would read out literally
	unspokenSymbols = regexp.MustCompile("[\"'(){}\\[\\]<>*/\\\\&@#$%^`~=_+-]")
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// NormalizeSpeechText strips symbols that are not meant to be spoken and collapses whitespace.
func NormalizeSpeechText(text string) string {
	text = unspokenSymbols.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SelectVoice picks a voice for the teacher's gender: a named match in lang first, then any voice
// in lang. ok is false when nothing fits and the browser default should be used.
func SelectVoice(voices []domain.Voice, gender domain.VoiceGender, lang string) (domain.Voice, bool) {
	pattern := maleVoicePattern
	if gender == domain.VoiceFemale {
		pattern = femaleVoicePattern
	}
	for _, v := range voices {
		if v.Lang == lang && pattern.MatchString(v.Name) {
			return v, true
		}
	}
	for _, v := range voices {
		if v.Lang == lang {
			return v, true
		}
	}
	return domain.Voice{}, false
}

// RateForLevel slows speech down for weaker students.
func RateForLevel(level domain.LevelID) float64 {
	switch level {
	case domain.LevelBeginner:
		return 0.8
	case domain.LevelIntermediate:
		return 0.9
	default:
		return 1.0
	}
}

func PitchForVoice(gender domain.VoiceGender) float64 {
	if gender == domain.VoiceFemale {
		return 1.1
	}
	return 0.9
}

// BuildSpeakRequest assembles the utterance parameters. A nil voices slice means no explicit voice.
func BuildSpeakRequest(text string, teacher domain.TeacherProfile, level domain.LevelID, voices []domain.Voice, lang string) domain.SpeakRequest {
	req := domain.SpeakRequest{
		Text:   NormalizeSpeechText(text),
		Lang:   lang,
		Rate:   RateForLevel(level),
		Pitch:  PitchForVoice(teacher.Voice),
		Volume: 1.0,
	}
	if v, ok := SelectVoice(voices, teacher.Voice, lang); ok {
		req.Voice = v.Name
	}
	return req
}
