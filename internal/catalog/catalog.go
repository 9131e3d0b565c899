/**
 * @description
 * Built-in catalog of popular subscription services. The Mini App uses it to
 * prefill the create-subscription form; entries are static and served
 * straight from memory.
 */
package catalog

import "strings"

// Service is one catalog entry.
type Service struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	URL      string `json:"url,omitempty"`
}

var services = []Service{
	{Name: "Яндекс Плюс", Category: "Развлечения", Icon: "🎬", URL: "https://plus.yandex.ru"},
	{Name: "Кинопоиск", Category: "Развлечения", Icon: "🎬", URL: "https://kinopoisk.ru"},
	{Name: "Netflix", Category: "Развлечения", Icon: "🎬", URL: "https://netflix.com"},
	{Name: "ИВИ", Category: "Развлечения", Icon: "📺", URL: "https://ivi.ru"},
	{Name: "Okko", Category: "Развлечения", Icon: "📺", URL: "https://okko.tv"},
	{Name: "Spotify", Category: "Музыка", Icon: "🎵", URL: "https://spotify.com"},
	{Name: "Яндекс Музыка", Category: "Музыка", Icon: "🎵", URL: "https://music.yandex.ru"},
	{Name: "VK Музыка", Category: "Музыка", Icon: "🎵", URL: "https://music.vk.com"},
	{Name: "Apple Music", Category: "Музыка", Icon: "🎵", URL: "https://music.apple.com"},
	{Name: "iCloud+", Category: "Облако", Icon: "☁️", URL: "https://icloud.com"},
	{Name: "Google One", Category: "Облако", Icon: "☁️", URL: "https://one.google.com"},
	{Name: "Яндекс 360", Category: "Облако", Icon: "☁️", URL: "https://360.yandex.ru"},
	{Name: "Telegram Premium", Category: "Мессенджеры", Icon: "✈️", URL: "https://telegram.org"},
	{Name: "ChatGPT Plus", Category: "Сервисы", Icon: "🤖", URL: "https://chat.openai.com"},
	{Name: "GitHub Copilot", Category: "Сервисы", Icon: "💻", URL: "https://github.com/features/copilot"},
	{Name: "Duolingo Super", Category: "Образование", Icon: "🦉", URL: "https://duolingo.com"},
	{Name: "Skyeng", Category: "Образование", Icon: "📚", URL: "https://skyeng.ru"},
	{Name: "Ozon Premium", Category: "Покупки", Icon: "🛒", URL: "https://ozon.ru"},
	{Name: "СберПрайм", Category: "Покупки", Icon: "🛒", URL: "https://sberprime.sber.ru"},
	{Name: "World Class", Category: "Спорт", Icon: "🏋️", URL: "https://worldclass.ru"},
}

// Search filters the catalog by exact category and/or a case-insensitive
// substring match against the name and category. Empty filters match
// everything.
func Search(category, search string) []Service {
	filtered := make([]Service, 0, len(services))
	needle := strings.ToLower(search)

	for _, s := range services {
		if category != "" && s.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Category), needle) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
