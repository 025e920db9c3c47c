package deal

// Normalizer turns one Post into one Deal. It never fails: missing fields
// produce empty strings in the result.
type Normalizer struct {
	classifier *Classifier
}

func NewNormalizer(classifier *Classifier) *Normalizer {
	if classifier == nil {
		classifier = NewClassifier(DefaultPlatforms)
	}
	return &Normalizer{classifier: classifier}
}

func (n *Normalizer) Run(post Post) Deal {
	link := ExtractLink(post.Text, post.Facets)
	name := DeriveName(post.Text, link)

	return Deal{
		ID:        post.ID,
		Name:      name,
		Price:     ExtractPrice(post.Text),
		URL:       link,
		Platform:  n.classifier.Classify(name),
		Timestamp: post.CreatedAt,
	}
}

func (n *Normalizer) RunAll(posts []Post) []Deal {
	deals := make([]Deal, 0, len(posts))
	for _, post := range posts {
		deals = append(deals, n.Run(post))
	}
	return deals
}
