package organizations

type Repo interface {
	Upsert(org *Organization) error
	Delete(id string) error
	Get(id string) (*Organization, error)
	List(offset, limit int) ([]*Organization, error)
}
