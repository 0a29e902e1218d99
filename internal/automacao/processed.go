package automacao

import (
	"encoding/json"
	"os"
	"sort"
)

// ProcessedSet: conjunto durável de ids de e-mails já convertidos em pedidos.
// É o único mecanismo de de-duplicação: a checagem de pertencimento acontece
// ANTES de qualquer chamada à API para aquele id. Lido uma vez na partida e
// regravado ao fim de cada ciclo (um único processo escreve).
type ProcessedSet struct {
	path string
	ids  map[string]struct{}
}

// LoadProcessed carrega a lista persistida; arquivo ausente vira conjunto vazio.
func LoadProcessed(path string) (*ProcessedSet, error) {
	s := &ProcessedSet{path: path, ids: map[string]struct{}{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for _, id := range list {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

func (s *ProcessedSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *ProcessedSet) Add(id string) {
	s.ids[id] = struct{}{}
}

func (s *ProcessedSet) Len() int {
	return len(s.ids)
}

// Save regrava o arquivo como uma lista ordenada de strings.
func (s *ProcessedSet) Save() error {
	list := make([]string, 0, len(s.ids))
	for id := range s.ids {
		list = append(list, id)
	}
	sort.Strings(list)

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
