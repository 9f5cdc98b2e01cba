package model

// FilterTypeOf derives the list filter/section bucket for an item. Prefetched
// content wins over the raw category so suggested pages do not land in Sites.
func FilterTypeOf(it OfflineItem) FilterType {
	if it.IsSuggested {
		return FilterPrefetched
	}
	switch it.Category {
	case CategoryPage:
		return FilterSites
	case CategoryVideo:
		return FilterVideos
	case CategoryAudio:
		return FilterMusic
	case CategoryImage:
		return FilterImages
	case CategoryDocument:
		return FilterDocuments
	default:
		return FilterOther
	}
}
