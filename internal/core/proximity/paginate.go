package proximity

// Paginate возвращает срез страницы page (с 1) размера pageSize.
// Страница за пределами результата пустая, это не ошибка.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []T{}
	}
	// сравниваем номера страниц, а не смещения: (page-1)*pageSize может переполниться
	pages := (len(items) + pageSize - 1) / pageSize
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
