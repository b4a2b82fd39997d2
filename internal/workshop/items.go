package workshop

import (
	"strconv"

	"github.com/modshipapp/modship/internal/domain"
	"github.com/modshipapp/modship/internal/steam"
)

// maxSafeStat caps narrowed counters at the largest integer a UI built on
// doubles can hold exactly. Counters beyond it clamp instead of going
// negative or losing precision silently.
const maxSafeStat = 1<<53 - 1

// narrowItem converts a raw SDK item into the domain shape: 64-bit IDs
// become decimal strings, unsigned counters clamp into int range, and the
// remote visibility code maps back fail-closed.
func narrowItem(r steam.RawItem) domain.WorkshopItem {
	return domain.WorkshopItem{
		ID:            strconv.FormatUint(r.ID, 10),
		Title:         r.Title,
		Description:   r.Description,
		Tags:          r.Tags,
		Visibility:    domain.VisibilityFromRemoteCode(r.Visibility),
		CreatedAt:     int64(r.CreatedAt),
		UpdatedAt:     int64(r.UpdatedAt),
		Subscriptions: narrowStat(r.Subscriptions),
		Favorites:     narrowStat(r.Favorites),
		Views:         narrowStat(r.Views),
	}
}

func narrowStat(v uint64) int {
	if v > maxSafeStat {
		return maxSafeStat
	}
	return int(v)
}
