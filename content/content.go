// Package content provides the portal's static tab data: district news, the
// events calendar and the infrastructure directory. The data ships as
// built-in fixtures and can be replaced wholesale by a JSON file.
package content

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/botanika/portal/models"
)

// Library holds the loaded static tab content.
type Library struct {
	News   []models.NewsItem  `json:"news"`
	Events []models.EventItem `json:"events"`
	Places []models.Place     `json:"places"`
}

// Load returns the content library. An empty path yields the built-in
// fixtures; otherwise the file must parse or an error is returned so a typo
// does not silently blank the portal.
func Load(path string) (*Library, error) {
	if path == "" {
		return defaultLibrary(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	var lib Library
	if err := json.Unmarshal(b, &lib); err != nil {
		return nil, fmt.Errorf("parse content file %s: %w", path, err)
	}
	return &lib, nil
}

func defaultLibrary() *Library {
	return &Library{
		News: []models.NewsItem{
			{
				ID:       1,
				Title:    "Благоустройство детской площадки завершено",
				Date:     "23 октября 2025",
				Category: "Благоустройство",
				Excerpt:  "На территории ЖК Ботанический установлено новое современное игровое оборудование для детей всех возрастов.",
			},
			{
				ID:       2,
				Title:    "График отключения горячей воды",
				Date:     "22 октября 2025",
				Category: "ЖКХ",
				Excerpt:  "С 25 по 28 октября будут проводиться плановые работы по обслуживанию системы водоснабжения.",
			},
			{
				ID:       3,
				Title:    "Открытие нового магазина продуктов",
				Date:     "20 октября 2025",
				Category: "Инфраструктура",
				Excerpt:  "В первом корпусе открылся новый продуктовый магазин с широким ассортиментом товаров.",
			},
		},
		Events: []models.EventItem{
			{
				ID:          1,
				Title:       "День соседей",
				Date:        "28 октября 2025",
				Time:        "14:00",
				Location:    "Центральная площадка",
				Description: "Приглашаем всех жителей на дружескую встречу с угощениями и развлечениями для детей.",
			},
			{
				ID:          2,
				Title:       "Субботник",
				Date:        "30 октября 2025",
				Time:        "10:00",
				Location:    "Территория комплекса",
				Description: "Общий субботник по уборке придомовой территории. Инвентарь предоставляется.",
			},
		},
		Places: []models.Place{
			{Name: "Детский сад \"Радуга\"", Address: "Корпус 1", Phone: "+7 (846) 123-45-67"},
			{Name: "Фитнес-центр \"Здоровье\"", Address: "Корпус 3", Phone: "+7 (846) 234-56-78"},
			{Name: "Продуктовый магазин \"Пятёрочка\"", Address: "Корпус 2", Phone: "+7 (846) 345-67-89"},
			{Name: "Аптека \"Здравсити\"", Address: "Корпус 1", Phone: "+7 (846) 456-78-90"},
		},
	}
}
