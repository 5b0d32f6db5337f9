package i18n

// Message keys.
const (
	MainInfo          = "main_info"
	AskAddress        = "ask_address"
	AskNewAddress     = "ask_new_address"
	AddressUpdated    = "address_updated"
	AddressInvalid    = "address_invalid"
	AddressSaveFailed = "address_save_failed"
	RunPrompt         = "run_prompt"
	ButtonOpenApp     = "button_open_app"
	ButtonReferral    = "button_referral"
	ButtonAddress     = "button_address"
	ReferralInfo      = "referral_info"
	ReferralLink      = "referral_link"
	ChooseLanguage    = "choose_language"
	LanguageUpdated   = "language_updated"
	SupportWelcome    = "support_welcome"
	SupportWaiting    = "support_waiting"
	SupportConfirming = "support_confirming"
	SupportExchanging = "support_exchanging"
	SupportSending    = "support_sending"
	SupportFinished   = "support_finished"
	SupportUnable     = "support_unable"
	SupportNotFound   = "support_not_found"
	SupportFailed     = "support_failed"
	ConversationEnded = "conversation_ended"
	RewardCredited    = "reward_credited"
	Help              = "help"
	GenericError      = "generic_error"
)

var messages = map[string]map[string]string{
	MainInfo: {
		"en": "<b>TeleSwap referral programme</b>\n\n" +
			"Registered users: %[1]d\nActive traders: %[2]d\nCompleted exchanges: %[3]d\n" +
			"Total volume: $%[4]s\nRevenue share: $%[5]s\n\n" +
			"Invite friends with /referral and earn on every exchange they complete.",
		"ru": "<b>Реферальная программа TeleSwap</b>\n\n" +
			"Зарегистрировано: %[1]d\nАктивных трейдеров: %[2]d\nЗавершённых обменов: %[3]d\n" +
			"Общий объём: $%[4]s\nДоля дохода: $%[5]s\n\n" +
			"Приглашайте друзей через /referral и получайте вознаграждение за каждый их обмен.",
		"zh": "<b>TeleSwap 推荐计划</b>\n\n" +
			"注册用户：%[1]d\n活跃交易者：%[2]d\n已完成兑换：%[3]d\n" +
			"总交易量：$%[4]s\n收益分成：$%[5]s\n\n" +
			"使用 /referral 邀请好友，好友每完成一次兑换您都能获得奖励。",
	},
	AskAddress: {
		"en": "Please provide your TON coin address to receive your rewards (e.g., EQA-B8bcD...)",
		"ru": "Укажите ваш адрес TON для получения вознаграждений (например, EQA-B8bcD...)",
		"zh": "请提供您的 TON 地址以接收奖励（例如 EQA-B8bcD...）",
	},
	AskNewAddress: {
		"en": "Please provide your new TON coin address:",
		"ru": "Укажите ваш новый адрес TON:",
		"zh": "请提供您的新 TON 地址：",
	},
	AddressUpdated: {
		"en": "Your TON coin address has been updated successfully! ✅",
		"ru": "Ваш адрес TON успешно обновлён! ✅",
		"zh": "您的 TON 地址已成功更新！✅",
	},
	AddressInvalid: {
		"en": "This is not a valid TON address. Please send it again.",
		"ru": "Это неверный адрес TON. Пожалуйста, отправьте его ещё раз.",
		"zh": "这不是有效的 TON 地址，请重新发送。",
	},
	AddressSaveFailed: {
		"en": "There was an error saving your address. Please try again.",
		"ru": "Не удалось сохранить адрес. Попробуйте ещё раз.",
		"zh": "保存地址时出错，请重试。",
	},
	RunPrompt: {
		"en": "Click one of the options below:",
		"ru": "Выберите один из вариантов:",
		"zh": "请选择以下选项之一：",
	},
	ButtonOpenApp: {
		"en": "Open TeleSwap Mini App",
		"ru": "Открыть TeleSwap",
		"zh": "打开 TeleSwap 小程序",
	},
	ButtonReferral: {
		"en": "Get Referral Link",
		"ru": "Реферальная ссылка",
		"zh": "获取推荐链接",
	},
	ButtonAddress: {
		"en": "Update Address",
		"ru": "Изменить адрес",
		"zh": "更新地址",
	},
	ReferralInfo: {
		"en": "<b>Your referrals</b>\nReferrals: %[1]d\nVolume: $%[2]s\nRewards: $%[3]s\n\n" +
			"<b>Programme</b>\nReferrals: %[4]d\nVolume: $%[5]s\nRewards: $%[6]s\n\n" +
			"Your referral link: %[7]s",
		"ru": "<b>Ваши рефералы</b>\nРефералов: %[1]d\nОбъём: $%[2]s\nВознаграждение: $%[3]s\n\n" +
			"<b>Программа</b>\nРефералов: %[4]d\nОбъём: $%[5]s\nВознаграждение: $%[6]s\n\n" +
			"Ваша реферальная ссылка: %[7]s",
		"zh": "<b>您的推荐</b>\n推荐人数：%[1]d\n交易量：$%[2]s\n奖励：$%[3]s\n\n" +
			"<b>整个计划</b>\n推荐人数：%[4]d\n交易量：$%[5]s\n奖励：$%[6]s\n\n" +
			"您的推荐链接：%[7]s",
	},
	ReferralLink: {
		"en": "Share this link with your friends: %[1]s",
		"ru": "Поделитесь этой ссылкой с друзьями: %[1]s",
		"zh": "将此链接分享给您的朋友：%[1]s",
	},
	ChooseLanguage: {
		"en": "Please select your preferred language:",
		"ru": "Выберите язык:",
		"zh": "请选择您的语言：",
	},
	LanguageUpdated: {
		"en": "Your language has been updated successfully!",
		"ru": "Язык успешно изменён!",
		"zh": "语言已成功更新！",
	},
	SupportWelcome: {
		"en": "Hi %[1]s! Send me the ID of your exchange and I will check its status.",
		"ru": "Здравствуйте, %[1]s! Отправьте ID обмена, и я проверю его статус.",
		"zh": "您好 %[1]s！请发送您的兑换 ID，我会为您查询状态。",
	},
	SupportWaiting: {
		"en": "We are waiting for your %[1]s deposit.",
		"ru": "Ожидаем поступления %[1]s.",
		"zh": "我们正在等待您的 %[1]s 存款。",
	},
	SupportConfirming: {
		"en": "Your %[1]s deposit is being confirmed by the network.\n%[2]s",
		"ru": "Ваш депозит %[1]s подтверждается сетью.\n%[2]s",
		"zh": "您的 %[1]s 存款正在等待网络确认。\n%[2]s",
	},
	SupportExchanging: {
		"en": "Your %[1]s is being exchanged for %[2]s.",
		"ru": "Идёт обмен %[1]s на %[2]s.",
		"zh": "正在将您的 %[1]s 兑换为 %[2]s。",
	},
	SupportSending: {
		"en": "Your %[2]s is being sent after exchanging %[1]s.",
		"ru": "Обмен %[1]s завершён, %[2]s отправляются вам.",
		"zh": "%[1]s 已兑换完成，正在向您发送 %[2]s。",
	},
	SupportFinished: {
		"en": "Your %[1]s to %[2]s exchange is complete. ✅\n%[3]s",
		"ru": "Обмен %[1]s на %[2]s завершён. ✅\n%[3]s",
		"zh": "您的 %[1]s 兑换 %[2]s 已完成。✅\n%[3]s",
	},
	SupportUnable: {
		"en": "We are unable to determine the status of this exchange. Please contact support.",
		"ru": "Не удалось определить статус обмена. Обратитесь в поддержку.",
		"zh": "无法确定此兑换的状态，请联系客服。",
	},
	SupportNotFound: {
		"en": "This Transaction ID does not exist. Please input the correct transaction ID.",
		"ru": "Такого ID транзакции не существует. Введите правильный ID.",
		"zh": "该交易 ID 不存在，请输入正确的交易 ID。",
	},
	SupportFailed: {
		"en": "There was an error finding your transaction. Please try again.",
		"ru": "Не удалось найти транзакцию. Попробуйте ещё раз.",
		"zh": "查找交易时出错，请重试。",
	},
	ConversationEnded: {
		"en": "The request has expired. Please start again.",
		"ru": "Время ожидания истекло. Начните заново.",
		"zh": "请求已过期，请重新开始。",
	},
	RewardCredited: {
		"en": "🎉 Your referral completed an exchange. You earned $%[1]s.",
		"ru": "🎉 Ваш реферал завершил обмен. Вы заработали $%[1]s.",
		"zh": "🎉 您推荐的用户完成了一次兑换，您获得了 $%[1]s。",
	},
	Help: {
		"en": "<b>Commands</b>\n/start - register and see programme stats\n/run - open the mini app\n" +
			"/referral - your referral stats and link\n/update_address - change your TON payout address\n" +
			"/update_language - change the language\n/support - check an exchange status\n/help - this message",
		"ru": "<b>Команды</b>\n/start - регистрация и статистика программы\n/run - открыть мини-приложение\n" +
			"/referral - ваша реферальная статистика и ссылка\n/update_address - изменить адрес TON для выплат\n" +
			"/update_language - сменить язык\n/support - проверить статус обмена\n/help - это сообщение",
		"zh": "<b>命令</b>\n/start - 注册并查看计划统计\n/run - 打开小程序\n" +
			"/referral - 您的推荐统计和链接\n/update_address - 更改 TON 收款地址\n" +
			"/update_language - 更改语言\n/support - 查询兑换状态\n/help - 显示本帮助",
	},
	GenericError: {
		"en": "An error occurred. Please try again.",
		"ru": "Произошла ошибка. Попробуйте ещё раз.",
		"zh": "发生错误，请重试。",
	},
}
