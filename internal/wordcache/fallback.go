package wordcache

// Baseline corpus used when every external source is unavailable. Small on
// purpose: it only has to keep a game playable until a refresh succeeds.
var fallbackWords = []string{
	"araba", "ev", "masa", "kalem", "kitap", "telefon", "bilgisayar", "oyun",
	"çocuk", "anne", "baba", "kardeş", "arkadaş", "okul", "öğretmen", "öğrenci",
	"deniz", "göl", "dağ", "orman", "şehir", "köy", "mahalle", "sokak",
	"yemek", "su", "ekmek", "peynir", "domates", "patates", "soğan", "elma",
	"armut", "üzüm", "portakal", "muz", "çilek", "kiraz", "karpuz", "kavun",
	"köpek", "kedi", "kuş", "balık", "at", "inek", "koyun", "tavuk",
	"güneş", "ay", "yıldız", "bulut", "yağmur", "kar", "rüzgar", "hava",
	"renk", "kırmızı", "mavi", "yeşil", "sarı", "beyaz", "siyah", "mor",
	"müzik", "şarkı", "dans", "resim", "film", "gazete", "dergi",
	"spor", "futbol", "basketbol", "voleybol", "yüzme", "koşu", "bisiklet",
	"abide", "acele", "adalet", "aile", "alarm", "amaç", "anlaşma",
	"banyo", "bahar", "bahçe", "balkon", "barış", "başarı", "berber",
	"cadde", "cami", "çanta", "çiçek", "çorba", "dalga", "defter",
	"ekonomi", "elektrik", "endüstri", "fabrika", "fırın", "güzellik",
	"haber", "hastane", "hayat", "hediye", "hukuk", "ilaç", "internet",
	"jandarma", "kabin", "kalp", "kampanya", "kanun", "kapı", "karar", "kargo",
	"liman", "lüks", "makina", "mağaza", "meydan", "millet", "muhabbet", "neden",
	"ofis", "otopark", "ödeme", "paket", "parti", "perde", "proje", "radyo",
	"salon", "sanat", "seçim", "sistem", "şirket", "taksi", "teknoloji", "ticaret",
	"uydu", "üniversite", "ürün", "vatan", "vergi", "video", "yönetim", "zengin",
	"istanbul", "ispanak", "ısıtma", "ışık", "iğne", "içecek", "idare", "imza",
}

// FallbackWords returns the static word set, normalized. Never fails and
// performs no I/O.
func FallbackWords() map[string]struct{} {
	out := make(map[string]struct{}, len(fallbackWords))
	for _, w := range fallbackWords {
		out[w] = struct{}{}
	}
	return out
}
