package clinicaltrials

// Die Studien-Dokumente von ClinicalTrials.gov sind tief verschachtelt und
// typ-inkonsistent. Statt pro Feld einzeln zu prüfen, läuft jeder Zugriff
// über dig: ein fehlender oder falsch getypter Zwischenknoten liefert nil,
// niemals einen Panic.

// dig folgt einem Pfad aus Objekt-Keys durch das rohe Dokument.
func dig(doc map[string]any, path ...string) any {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// digString liefert den String unter dem Pfad oder nil.
func digString(doc map[string]any, path ...string) *string {
	if s, ok := dig(doc, path...).(string); ok {
		return &s
	}
	return nil
}

// digList liefert die Liste unter dem Pfad oder nil.
func digList(doc map[string]any, path ...string) []any {
	if l, ok := dig(doc, path...).([]any); ok {
		return l
	}
	return nil
}

// stringList filtert eine rohe Liste auf nicht-leere Strings.
// Bleibt nichts übrig, ist das Ergebnis nil — leere Listen stehen im
// Trial-Modell nie für "unbekannt".
func stringList(raw []any) []string {
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
