// Package recommend は天候に基づく運動レコメンドを提供する。
//
// 天候の取得は外部コラボレータの扱いで、Providerインターフェースの背後に
// 隠蔽される。現在の実装は外部APIを呼ばないモックで、都市名から擬似的な
// 天候を生成する。
package recommend

import (
	"math/rand"
)

// Weather は1都市の天候を表す。
type Weather struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"` // 摂氏
	Condition   string `json:"condition"`
	Humidity    int    `json:"humidity"` // パーセント
}

// Provider は天候取得のインターフェース。
type Provider interface {
	// Current は指定都市の現在の天候を返す。
	Current(city string) (*Weather, error)
}

// conditions はモックが返し得る天候の一覧。
var conditions = []string{"Sunny", "Cloudy", "Rainy", "Windy"}

// MockProvider は外部APIを呼ばずに擬似的な天候を生成するProvider実装。
type MockProvider struct {
	// randFn は乱数生成を差し替えるためのフック。nilの場合はrand.Intnを使う。
	randFn func(n int) int
}

// NewMockProvider はMockProviderを生成する。
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Current は都市名から擬似的な天候を生成して返す。
// 気温は10〜39度、湿度は30〜79%の範囲。
func (p *MockProvider) Current(city string) (*Weather, error) {
	intn := rand.Intn
	if p.randFn != nil {
		intn = p.randFn
	}

	return &Weather{
		City:        city,
		Temperature: intn(30) + 10,
		Condition:   conditions[intn(len(conditions))],
		Humidity:    intn(50) + 30,
	}, nil
}

// ForWeather は天候に応じた運動のレコメンドを返す。
// ルールは固定で、条件の評価順もこの通り:
//  1. 晴れかつ15度超 → 屋外運動
//  2. 雨 → 屋内運動
//  3. 10度未満 → 屋内の軽い運動
//  4. それ以外 → 軽い全般的な運動
func ForWeather(w *Weather) []string {
	switch {
	case w.Condition == "Sunny" && w.Temperature > 15:
		return []string{"Running", "Cycling", "Outdoor Yoga", "Swimming"}
	case w.Condition == "Rainy":
		return []string{"Gym Workout", "Indoor Cycling", "Yoga", "Swimming"}
	case w.Temperature < 10:
		return []string{"Gym Workout", "Indoor Sports", "Treadmill Running"}
	default:
		return []string{"Walking", "Light Jogging", "Stretching"}
	}
}

// compile-time interface check
var _ Provider = (*MockProvider)(nil)
