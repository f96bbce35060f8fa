package entity

import "encoding/json"

// TagSet упорядоченное множество строк
// Порядок - порядок первого добавления, повторное добавление ничего не меняет
type TagSet struct {
	items []string
}

// NewTagSet создает множество из тегов, дубликаты отбрасываются
func NewTagSet(tags ...string) *TagSet {
	s := &TagSet{}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

func (s *TagSet) Contains(tag string) bool {
	return s.index(tag) >= 0
}

// Add добавляет тег в конец, если его еще нет
func (s *TagSet) Add(tag string) bool {
	if s.Contains(tag) {
		return false
	}
	s.items = append(s.items, tag)
	return true
}

// Remove удаляет тег с сохранением порядка остальных
func (s *TagSet) Remove(tag string) bool {
	i := s.index(tag)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Toggle переключает принадлежность тега, возвращает true если тег теперь в множестве
func (s *TagSet) Toggle(tag string) bool {
	if s.Remove(tag) {
		return false
	}
	s.items = append(s.items, tag)
	return true
}

func (s *TagSet) Len() int {
	return len(s.items)
}

// Values копия элементов в порядке добавления
func (s *TagSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *TagSet) Clone() *TagSet {
	return &TagSet{items: s.Values()}
}

func (s *TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON принимает массив строк, дубликаты отбрасываются
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	s.items = nil
	for _, t := range tags {
		s.Add(t)
	}
	return nil
}

func (s *TagSet) index(tag string) int {
	for i, t := range s.items {
		if t == tag {
			return i
		}
	}
	return -1
}
