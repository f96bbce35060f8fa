package filter

import (
	"net/url"
	"strconv"
	"strings"

	"catalogadmin/admin-service/internal/app/admin/entity"
)

// Ключи строки запроса
const (
	KeyPage = "page"
	KeyName = "name"
)

// ParseQuery разбирает строку запроса в SearchQuery
// Отсутствующая, нечисловая или меньшая 1 страница дает 1
func ParseQuery(raw string) entity.SearchQuery {
	query := entity.DefaultSearchQuery()

	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return query
	}

	if page, err := strconv.Atoi(values.Get(KeyPage)); err == nil && page >= 1 {
		query.Page = page
	}
	query.Name = values.Get(KeyName)
	return query
}

// EncodeQuery сериализует фильтр: сначала page, пустое name опускается
func EncodeQuery(query entity.SearchQuery) string {
	query = query.Normalize()

	var b strings.Builder
	b.WriteString(KeyPage)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(query.Page))
	if query.Name != "" {
		b.WriteByte('&')
		b.WriteString(KeyName)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(query.Name))
	}
	return b.String()
}
