// internal/service/recommend/prompt.go

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/preference"
)

// maxPromptCandidates bounds how many candidates are rendered into the
// ranking prompt.
const maxPromptCandidates = 20

// maxPromptTags bounds each weighted preference list in the prompt.
const maxPromptTags = 5

var purposeLabels = map[meeting.Purpose]string{
	meeting.PurposeDining: "식사",
	meeting.PurposeCafe:   "카페",
	meeting.PurposeDrink:  "술자리",
	meeting.PurposeEtc:    "기타 모임",
}

// buildPrompt renders the meeting context, aggregated preferences, and
// candidate list into the ranking request. The model is asked for a strict
// JSON object; the response schema is spelled out verbatim in the prompt.
func buildPrompt(m *meeting.Context, candidates []place.Candidate, topN int) string {
	var b strings.Builder

	b.WriteString("당신은 모임 장소 추천 전문가입니다. 아래 모임 정보와 후보 장소 목록을 보고 ")
	fmt.Fprintf(&b, "가장 적합한 장소 %d곳을 골라 순위를 매겨 주세요.\n\n", topN)

	b.WriteString("## 모임 정보\n")
	fmt.Fprintf(&b, "- 목적: %s\n", purposeLabel(m.Purpose))
	fmt.Fprintf(&b, "- 예상 인원: %d명\n", m.ExpectedParticipants)
	for _, line := range strategyLines(m) {
		b.WriteString("- " + line + "\n")
	}

	b.WriteString("\n## 참여자 선호 (태그: 선택한 인원수, 많은 순)\n")
	writeWeighted(&b, "음식 종류", preference.Ranked(m.Preferences.FoodWeights))
	writeWeighted(&b, "분위기", preference.Ranked(m.Preferences.AtmosphereWeights))
	writeWeighted(&b, "조건", preference.Ranked(m.Preferences.ConditionWeights))

	b.WriteString("\n## 후보 장소\n")
	shown := candidates
	if len(shown) > maxPromptCandidates {
		shown = shown[:maxPromptCandidates]
	}
	for i, c := range shown {
		fmt.Fprintf(&b, "%d. %s (id: %s)\n", i+1, c.Name, c.ID)
		if c.CategoryName != "" {
			fmt.Fprintf(&b, "   분류: %s\n", c.CategoryName)
		}
		if c.Address != "" {
			fmt.Fprintf(&b, "   주소: %s\n", c.Address)
		}
		if c.Phone != "" {
			fmt.Fprintf(&b, "   전화: %s\n", c.Phone)
		}
		if c.DistanceMeters > 0 {
			fmt.Fprintf(&b, "   중심지로부터 거리: %dm\n", c.DistanceMeters)
		}
		if len(c.Hints) > 0 {
			fmt.Fprintf(&b, "   참고: %s\n", strings.Join(c.Hints, ", "))
		}
	}

	b.WriteString("\n## 응답 형식\n")
	b.WriteString("다른 설명 없이 아래 형태의 JSON 객체만 출력하세요.\n")
	b.WriteString(`{
  "recommendations": [
    {
      "place_id": "후보의 id",
      "place_name": "장소 이름",
      "rank": 1,
      "reason": "추천 이유 (한두 문장)",
      "match_score": 0-100 사이 점수,
      "matched_preferences": ["충족한 선호 태그"],
      "considerations": ["방문 전 참고할 점"]
    }
  ],
  "summary": "전체 추천 요약 한 문장"
}`)
	b.WriteString("\n")

	return b.String()
}

func purposeLabel(p meeting.Purpose) string {
	if label, ok := purposeLabels[p]; ok {
		return label
	}
	return purposeLabels[meeting.DefaultPurpose]
}

// strategyLines describes the location-selection strategy and its detail.
func strategyLines(m *meeting.Context) []string {
	var lines []string
	switch m.LocationChoice {
	case meeting.ChoicePreferenceArea:
		lines = append(lines, "장소 선정 방식: 선호 지역 투표")
		if m.PreferredDistrict != "" {
			lines = append(lines, "선호 지역: "+m.PreferredDistrict)
		}
		if tally := voteTally(m.DistrictVotes); tally != "" {
			lines = append(lines, "지역 투표 현황: "+tally)
		}
	case meeting.ChoicePreferenceSubway:
		lines = append(lines, "장소 선정 방식: 선호 지하철역 투표")
		if m.PreferredStation != "" {
			lines = append(lines, "선호 역: "+m.PreferredStation)
		}
		if tally := voteTally(m.StationVotes); tally != "" {
			lines = append(lines, "역 투표 현황: "+tally)
		}
	default:
		lines = append(lines, "장소 선정 방식: 참여자 중간 지점")
		if d := m.District(); d != "" {
			lines = append(lines, "중간 지점 지역: "+d)
		}
	}
	return lines
}

// voteTally renders a vote map as "서울 강남구: 3표, ..." sorted by count
// descending, ties lexicographic.
func voteTally(votes map[string]int) string {
	if len(votes) == 0 {
		return ""
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(votes))
	for name, count := range votes {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s: %d표", e.name, e.count))
	}
	return strings.Join(parts, ", ")
}

func writeWeighted[T ~string](b *strings.Builder, label string, ranked []preference.WeightedList[T]) {
	if len(ranked) == 0 {
		return
	}
	if len(ranked) > maxPromptTags {
		ranked = ranked[:maxPromptTags]
	}

	parts := make([]string, 0, len(ranked))
	for _, w := range ranked {
		parts = append(parts, fmt.Sprintf("%s(%d명)", string(w.Tag), w.Count))
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(parts, ", "))
}

// categoryLeaf returns the most specific segment of a provider category
// path like "음식점 > 한식 > 국밥".
func categoryLeaf(categoryName string) string {
	if categoryName == "" {
		return ""
	}
	segments := strings.Split(categoryName, ">")
	return strings.TrimSpace(segments[len(segments)-1])
}
