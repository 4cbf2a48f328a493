package models

// VIPTier описывает один уровень VIP: цену покупки и размер ежедневной награды.
type VIPTier struct {
	Tier        int     // Номер уровня, 1—7
	Name        string  // Отображаемое имя уровня
	Price       float64 // Цена покупки в USDT
	DailyReward float64 // Ежедневная награда в USDT
}

// VIPDurationDays срок действия VIP-подписки в днях.
const VIPDurationDays = 365

// Статическая таблица уровней. Уровень 0 означает отсутствие VIP
// и в таблице не представлен.
var vipTiers = []VIPTier{
	{Tier: 1, Name: "Bronze", Price: 50, DailyReward: 0.5},
	{Tier: 2, Name: "Silver", Price: 100, DailyReward: 1.1},
	{Tier: 3, Name: "Gold", Price: 250, DailyReward: 3},
	{Tier: 4, Name: "Platinum", Price: 500, DailyReward: 6.5},
	{Tier: 5, Name: "Diamond", Price: 1000, DailyReward: 14},
	{Tier: 6, Name: "Elite", Price: 2500, DailyReward: 37.5},
	{Tier: 7, Name: "Royal", Price: 5000, DailyReward: 80},
}

// VIPTiers возвращает копию таблицы уровней VIP.
func VIPTiers() []VIPTier {
	out := make([]VIPTier, len(vipTiers))
	copy(out, vipTiers)
	return out
}

// FindVIPTier возвращает описание уровня по номеру, ok == false для
// неизвестного номера.
func FindVIPTier(tier int) (VIPTier, bool) {
	for _, t := range vipTiers {
		if t.Tier == tier {
			return t, true
		}
	}
	return VIPTier{}, false
}
