// 包 journal：旅行日志的领域模型（纪念品题目、访问记录与三步录入流程）
package journal

import "math/rand/v2"

// Souvenir：纪念品骰子的一面，即一次对话的题目
// 约束：Color 为前端样式标签，服务端不解释其内容。
type Souvenir struct {
	ID       string `json:"id"`
	Icon     string `json:"icon,omitempty"`
	Title    string `json:"title"`
	Question string `json:"question"`
	Color    string `json:"color"`
}

var souvenirs = []Souvenir{
	{ID: "anthem", Icon: "🎵", Title: "The Anthem", Question: "What is one song everyone in your country knows by heart?", Color: "bg-blue-100 text-blue-600"},
	{ID: "feast", Icon: "🍲", Title: "The Feast", Question: "What is the one meal you miss the most right now?", Color: "bg-orange-100 text-orange-600"},
	{ID: "legend", Icon: "👻", Title: "The Legend", Question: "Is there a monster or ghost story children are told?", Color: "bg-purple-100 text-purple-600"},
	{ID: "slang", Icon: "💬", Title: "The Slang", Question: "Teach me a phrase that only locals use.", Color: "bg-green-100 text-green-600"},
	{ID: "spot", Icon: "📍", Title: "The Spot", Question: "If I visited, what is one hidden place I must see?", Color: "bg-red-100 text-red-600"},
	{ID: "gift", Icon: "🎁", Title: "The Gift", Question: "What is one positive trait your culture brings to the world?", Color: "bg-yellow-100 text-yellow-600"},
}

// Souvenirs：返回全部题目的副本（固定 6 项，顺序稳定）
func Souvenirs() []Souvenir {
	out := make([]Souvenir, len(souvenirs))
	copy(out, souvenirs)
	return out
}

// SouvenirByID：按 id 查找题目
func SouvenirByID(id string) (Souvenir, bool) {
	for _, s := range souvenirs {
		if s.ID == id {
			return s, true
		}
	}
	return Souvenir{}, false
}

// IntSource：随机源抽象，*rand.Rand（math/rand/v2）满足该接口
type IntSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource：进程级随机源，无种子要求
var DefaultSource IntSource = globalSource{}

// Roll：在全部题目上等概率抽取一项
// 约束：src 为 nil 时使用 DefaultSource；返回值与 Souvenirs() 中某项相等。
func Roll(src IntSource) Souvenir {
	if src == nil {
		src = DefaultSource
	}
	return souvenirs[src.IntN(len(souvenirs))]
}
