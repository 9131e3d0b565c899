package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// User-facing texts, in Russian like the rest of the product.
const (
	startText = "👋 Добро пожаловать в PayPlanner!\n\n" +
		"Я помогу вам отслеживать ваши платные подписки.\n\n" +
		"Используйте кнопку ниже, чтобы открыть приложение:"

	helpText = "📖 Справка по PayPlanner:\n\n" +
		"/start - Открыть приложение\n" +
		"/stats - Показать краткую статистику\n" +
		"/settings - Настройки уведомлений\n\n" +
		"Используйте мини-приложение для полного управления подписками."

	settingsText = "Изменить настройки уведомлений можно в мини-приложении.\n" +
		"Используйте /start чтобы открыть его."

	noUserText          = "Пользователь не найден. Используйте /start для регистрации."
	noSubscriptionsText = "У вас пока нет активных подписок.\nИспользуйте /start чтобы добавить первую."
	statsErrorText      = "Произошла ошибка при получении статистики"
	unknownUserText     = "Ошибка: не удалось определить пользователя"
)

// webAppKeyboard builds the inline button that opens the Mini App.
func webAppKeyboard(webAppURL string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📱 Открыть приложение", webAppURL),
		),
	)
}
