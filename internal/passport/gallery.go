package passport

import (
	"fmt"

	"global-atlas/internal/journal"
)

// 徽章文案
const (
	BadgeGold    = "GOLD MASTER"
	BadgeSilver  = "SILVER"
	BadgeBronze  = "BRONZE"
	BadgeExample = "EXAMPLE"
)

// Card：护照画廊中的一张卡片
type Card struct {
	Country       string `json:"country"`
	Region        string `json:"region"`
	RegionLabel   string `json:"region_label"`
	RegionCount   int    `json:"region_count"`
	Tier          Tier   `json:"tier"`
	Badge         string `json:"badge"`
	SouvenirTitle string `json:"souvenir_title,omitempty"`
	SouvenirColor string `json:"souvenir_color,omitempty"`
	Answer        string `json:"answer"`
	Photo         string `json:"photo,omitempty"`
	Placeholder   string `json:"placeholder,omitempty"`
	Example       bool   `json:"example,omitempty"`
}

// View：画廊整体视图
type View struct {
	Preview bool   `json:"preview"`
	Visited int    `json:"visited"`
	Total   int    `json:"total"`
	Cards   []Card `json:"cards"`
}

var previewEntries = []journal.VisitRecord{
	{
		Country:  "Japan",
		Region:   "Tokyo",
		Answer:   "Sukiyaki (Ue o Muite Arukō) is a song everyone knows! It's a classic that brings people together.",
		Souvenir: journal.Souvenir{Title: "The Anthem", Color: "text-blue-600 bg-blue-50"},
	},
	{
		Country:  "Brazil",
		Region:   "Rio de Janeiro",
		Answer:   "You have to try Feijoada! It's a black bean stew with pork that we usually eat on Saturdays.",
		Souvenir: journal.Souvenir{Title: "The Feast", Color: "text-orange-600 bg-orange-50"},
	},
}

// BadgeFor：等级对应的徽章文案；画廊中的真实记录至少为铜牌
func BadgeFor(t Tier) string {
	switch t {
	case TierGold:
		return BadgeGold
	case TierSilver:
		return BadgeSilver
	}
	return BadgeBronze
}

// Gallery：按展示顺序（最近优先）为每条记录生成卡片
// 约束：无记录时返回两张示例卡片并标记 Preview，示例卡片不计入 Visited。
func Gallery(records []journal.VisitRecord, aggs Aggregates) View {
	v := View{Visited: len(aggs), Total: TotalCountries}
	if len(records) == 0 {
		v.Preview = true
		for _, r := range previewEntries {
			c := card(r, 1)
			c.Badge = BadgeExample
			c.Example = true
			v.Cards = append(v.Cards, c)
		}
		return v
	}
	v.Cards = make([]Card, 0, len(records))
	for _, r := range records {
		n := aggs.Count(r.Country)
		if n == 0 {
			n = 1
		}
		v.Cards = append(v.Cards, card(r, n))
	}
	return v
}

func card(r journal.VisitRecord, n int) Card {
	t := TierFor(n)
	c := Card{
		Country:       r.Country,
		Region:        r.Region,
		RegionLabel:   r.Region,
		RegionCount:   n,
		Tier:          t,
		Badge:         BadgeFor(t),
		SouvenirTitle: r.Souvenir.Title,
		SouvenirColor: r.Souvenir.Color,
		Answer:        r.Answer,
		Photo:         r.Photo,
	}
	if n > 1 {
		c.RegionLabel = fmt.Sprintf("%s (+%d more)", r.Region, n-1)
	}
	if !r.HasPhoto() {
		c.Placeholder = placeholderFor(r.Country)
	}
	return c
}

func placeholderFor(country string) string {
	switch country {
	case "Japan":
		return "🗾"
	case "Brazil":
		return "🦜"
	}
	return "✈️"
}
