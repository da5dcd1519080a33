package extract

import "regexp"

// FindingCategory classifies an extracted clinical fact
type FindingCategory string

const (
	CategoryLateralization  FindingCategory = "lateralization"
	CategorySpecificSign    FindingCategory = "specific_sign"
	CategoryClinicalContext FindingCategory = "clinical_context"
	CategoryTemporal        FindingCategory = "temporal"
	CategoryAnatomical      FindingCategory = "anatomical"
	CategoryCriticalPhrase  FindingCategory = "critical_phrase"
	CategoryInvestigation   FindingCategory = "investigation"
)

// Pattern is one rule in the catalog. Canonical is the display term for
// the match; when empty, the matched text itself is used. Group tags
// investigation patterns with their test family for prompt rendering.
type Pattern struct {
	Regexp    *regexp.Regexp
	Subtype   string
	Canonical string
	Group     string
}

func pat(expr, subtype, canonical string) Pattern {
	return Pattern{Regexp: regexp.MustCompile(`(?i)` + expr), Subtype: subtype, Canonical: canonical}
}

func inv(expr, subtype, group string) Pattern {
	return Pattern{Regexp: regexp.MustCompile(`(?i)` + expr), Subtype: subtype, Group: group}
}

var lateralizationPatterns = []Pattern{
	pat(`\bright\s+(side|sided|hand|arm|leg|eye|facial|temporal|frontal|parietal|occipital)`, "right_sided", ""),
	pat(`\bleft\s+(side|sided|hand|arm|leg|eye|facial|temporal|frontal|parietal|occipital)`, "left_sided", ""),
	pat(`\bright\s+(weakness|numbness|tremor|rigidity|dystonia|seizure)`, "right_symptom", ""),
	pat(`\bleft\s+(weakness|numbness|tremor|rigidity|dystonia|seizure)`, "left_symptom", ""),
	pat(`\bunilateral\s+right`, "unilateral_right", ""),
	pat(`\bunilateral\s+left`, "unilateral_left", ""),
	pat(`\bipsilateral`, "ipsilateral", ""),
	pat(`\bcontralateral`, "contralateral", ""),
	pat(`\bbilateral`, "bilateral", ""),
}

var specificSignPatterns = []Pattern{
	// Neurological signs
	pat(`\bfigure\s+of\s+4\b`, "dystonic_sign", "figure of 4"),
	pat(`\bfencing\s+posture\b`, "seizure_sign", "fencing posture"),
	pat(`\bhorner'?s\s+syndrome\b`, "autonomic_sign", "Horner's syndrome"),
	pat(`\bptosis\b`, "cranial_nerve_sign", "ptosis"),
	pat(`\bmiosis\b`, "pupil_sign", "miosis"),
	pat(`\bmydriasis\b`, "pupil_sign", "mydriasis"),
	pat(`\banisocoria\b`, "pupil_sign", "anisocoria"),
	pat(`\bnystagmus\b`, "ocular_sign", "nystagmus"),
	pat(`\boscillopsia\b`, "visual_sign", "oscillopsia"),
	pat(`\bdiplopia\b`, "visual_sign", "diplopia"),
	pat(`\bhemianopia\b`, "visual_field_sign", "hemianopia"),
	pat(`\bquadrantanopia\b`, "visual_field_sign", "quadrantanopia"),
	pat(`\baphasia\b`, "language_sign", "aphasia"),
	pat(`\bdysarthria\b`, "speech_sign", "dysarthria"),
	pat(`\bdysphagia\b`, "swallowing_sign", "dysphagia"),
	pat(`\bataxia\b`, "coordination_sign", "ataxia"),
	pat(`\bdysmetria\b`, "coordination_sign", "dysmetria"),
	pat(`\bhemiparesis\b`, "motor_sign", "hemiparesis"),
	pat(`\bhemiplegia\b`, "motor_sign", "hemiplegia"),
	pat(`\bquadriparesis\b`, "motor_sign", "quadriparesis"),
	pat(`\bquadriplegia\b`, "motor_sign", "quadriplegia"),
	pat(`\bparaparesis\b`, "motor_sign", "paraparesis"),
	pat(`\bparaplegia\b`, "motor_sign", "paraplegia"),
	pat(`\bhypesthesia\b`, "sensory_sign", "hypesthesia"),
	pat(`\banesthesia\b`, "sensory_sign", "anesthesia"),
	pat(`\bhyperreflexia\b`, "reflex_sign", "hyperreflexia"),
	pat(`\bhyporeflexia\b`, "reflex_sign", "hyporeflexia"),
	pat(`\bareflexia\b`, "reflex_sign", "areflexia"),
	pat(`\bbabinski\s+sign\b`, "pathological_reflex", "Babinski sign"),
	pat(`\bclonus\b`, "pathological_reflex", "clonus"),

	// Movement disorder signs
	pat(`\bbradykinesia\b`, "movement_sign", "bradykinesia"),
	pat(`\brigidity\b`, "movement_sign", "rigidity"),
	pat(`\btremor\b`, "movement_sign", "tremor"),
	pat(`\bchorea\b`, "movement_sign", "chorea"),
	pat(`\ballism\b`, "movement_sign", "ballism"),
	pat(`\bdystonia\b`, "movement_sign", "dystonia"),
	pat(`\bmyoclonus\b`, "movement_sign", "myoclonus"),

	// Seizure semiology
	pat(`\bnose\s+rubbing\b`, "automatism", "nose rubbing"),
	pat(`\blip\s+smacking\b`, "automatism", "lip smacking"),
	pat(`\bchewing\s+movements\b`, "automatism", "chewing movements"),
	pat(`\bfidgeting\b`, "automatism", "fidgeting"),
	pat(`\bpicking\s+movements\b`, "automatism", "picking movements"),
	pat(`\btonic\s+posturing\b`, "seizure_sign", "tonic posturing"),
	pat(`\bclonic\s+jerking\b`, "seizure_sign", "clonic jerking"),
	pat(`\btonic[-\s]clonic\b`, "seizure_sign", "tonic-clonic"),
}

var clinicalContextPatterns = []Pattern{
	// Trauma
	pat(`\btraumatic\s+brain\s+injury\b`, "trauma", "TBI"),
	pat(`\bhead\s+trauma\b`, "trauma", "head trauma"),
	pat(`\bmotorcycle\s+accident\b`, "trauma", "motorcycle accident"),
	pat(`\bcar\s+accident\b`, "trauma", "motor vehicle accident"),
	pat(`\bfall\s+from\s+height\b`, "trauma", "fall from height"),
	pat(`\bsports\s+injury\b`, "trauma", "sports injury"),

	// Infectious
	pat(`\bmeningitis\b`, "infectious", "meningitis"),
	pat(`\bencephalitis\b`, "infectious", "encephalitis"),
	pat(`\babscess\b`, "infectious", "abscess"),

	// Vascular
	pat(`\bstroke\b`, "vascular", "stroke"),
	pat(`\binfarct\b`, "vascular", "infarct"),
	pat(`\bhemorrhage\b`, "vascular", "hemorrhage"),
	pat(`\baneurysm\b`, "vascular", "aneurysm"),
	pat(`\bav\s+malformation\b`, "vascular", "AV malformation"),

	// Degenerative and demyelinating
	pat(`\bparkinson\b`, "degenerative", "Parkinson disease"),
	pat(`\balzheimer\b`, "degenerative", "Alzheimer disease"),
	pat(`\bmultiple\s+sclerosis\b`, "demyelinating", "multiple sclerosis"),
}

var temporalPatterns = []Pattern{
	pat(`\bacute\b`, "acute", ""),
	pat(`\bchronic\b`, "chronic", ""),
	pat(`\bsubacute\b`, "subacute", ""),
	pat(`\bsudden\s+onset\b`, "sudden", ""),
	pat(`\bgradual\s+onset\b`, "gradual", ""),
	pat(`\bprogressive\b`, "progressive", ""),
	pat(`\bintermittent\b`, "intermittent", ""),
	pat(`\bepisodic\b`, "episodic", ""),
	pat(`\b(\d+)\s+years?\s+ago\b`, "years_ago", ""),
	pat(`\b(\d+)\s+months?\s+ago\b`, "months_ago", ""),
	pat(`\b(\d+)\s+weeks?\s+ago\b`, "weeks_ago", ""),
	pat(`\b(\d+)\s+days?\s+ago\b`, "days_ago", ""),
	pat(`\b(\d+)\s+hours?\s+ago\b`, "hours_ago", ""),
}

var anatomicalPatterns = []Pattern{
	// Brain regions
	pat(`\bfrontal\s+lobe\b`, "brain_region", "frontal lobe"),
	pat(`\btemporal\s+lobe\b`, "brain_region", "temporal lobe"),
	pat(`\bparietal\s+lobe\b`, "brain_region", "parietal lobe"),
	pat(`\boccipital\s+lobe\b`, "brain_region", "occipital lobe"),
	pat(`\bcerebellum\b`, "brain_region", "cerebellum"),
	pat(`\bbrainstem\b`, "brain_region", "brainstem"),
	pat(`\bmidbrain\b`, "brain_region", "midbrain"),
	pat(`\bpons\b`, "brain_region", "pons"),
	pat(`\bmedulla\b`, "brain_region", "medulla"),
	pat(`\bthalamus\b`, "brain_region", "thalamus"),
	pat(`\bhypothalamus\b`, "brain_region", "hypothalamus"),
	pat(`\bbasal\s+ganglia\b`, "brain_region", "basal ganglia"),
	pat(`\bcaudate\b`, "brain_region", "caudate"),
	pat(`\bputamen\b`, "brain_region", "putamen"),
	pat(`\bglobus\s+pallidus\b`, "brain_region", "globus pallidus"),
	pat(`\bsubstantia\s+nigra\b`, "brain_region", "substantia nigra"),

	// Nuclei
	pat(`\binferior\s+olive\b`, "nucleus", "inferior olive"),
	pat(`\binterstitial\s+nucleus\s+of\s+cajal\b`, "nucleus", "interstitial nucleus of Cajal"),
	pat(`\bdentate\s+nucleus\b`, "nucleus", "dentate nucleus"),
	pat(`\bred\s+nucleus\b`, "nucleus", "red nucleus"),

	// Spinal regions
	pat(`\bcervical\s+spine\b`, "spinal_region", "cervical spine"),
	pat(`\bthoracic\s+spine\b`, "spinal_region", "thoracic spine"),
	pat(`\blumbar\s+spine\b`, "spinal_region", "lumbar spine"),
	pat(`\bsacral\s+spine\b`, "spinal_region", "sacral spine"),
}

// Investigation patterns carry two capture groups: the modality phrase
// and the result clause up to the next period. The second group is the
// preserved finding.
var investigationPatterns = []Pattern{
	// Neurophysiology
	inv(`(EEG|electroencephalogram)\s+shows?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(EEG|electroencephalogram)\s+demonstrates?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(EEG|electroencephalogram)\s+reveals?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(EEG|electroencephalogram):\s*([^.]+)`, "EEG", "neurophysiology"),
	inv(`(electroencephalogram\s*\(EEG\))\s+shows?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(electroencephalogram\s*\(EEG\))\s+demonstrates?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(electroencephalogram\s*\(EEG\))\s+reveals?\s+([^.]+)`, "EEG", "neurophysiology"),
	inv(`(EMG|electromyography)\s+shows?\s+([^.]+)`, "EMG", "neurophysiology"),
	inv(`(NCS|nerve conduction study)\s+shows?\s+([^.]+)`, "NCS", "neurophysiology"),
	inv(`(nerve conduction)\s+shows?\s+([^.]+)`, "NCS", "neurophysiology"),
	inv(`(VEP|visual evoked potential)\s+shows?\s+([^.]+)`, "VEP", "neurophysiology"),
	inv(`(BAEP|brainstem auditory evoked potential)\s+shows?\s+([^.]+)`, "BAEP", "neurophysiology"),
	inv(`(SSEP|somatosensory evoked potential)\s+shows?\s+([^.]+)`, "SSEP", "neurophysiology"),

	// Imaging
	inv(`(MRI|magnetic resonance imaging)\s+shows?\s+([^.]+)`, "MRI", "imaging"),
	inv(`(MRI|magnetic resonance imaging)\s+demonstrates?\s+([^.]+)`, "MRI", "imaging"),
	inv(`(MRI|magnetic resonance imaging)\s+reveals?\s+([^.]+)`, "MRI", "imaging"),
	inv(`(brain\s+MRI)\s+shows?\s+([^.]+)`, "MRI", "imaging"),
	inv(`(spine\s+MRI)\s+shows?\s+([^.]+)`, "MRI", "imaging"),
	inv(`(CT|computed tomography)\s+shows?\s+([^.]+)`, "CT", "imaging"),
	inv(`(CT scan)\s+shows?\s+([^.]+)`, "CT", "imaging"),
	inv(`(head\s+CT)\s+shows?\s+([^.]+)`, "CT", "imaging"),
	inv(`(angiography|angiogram)\s+shows?\s+([^.]+)`, "Angiography", "imaging"),
	inv(`(PET|positron emission tomography)\s+shows?\s+([^.]+)`, "PET", "imaging"),
	inv(`(SPECT)\s+shows?\s+([^.]+)`, "SPECT", "imaging"),
	inv(`(ultrasound|sonography)\s+shows?\s+([^.]+)`, "Ultrasound", "imaging"),

	// Laboratory
	inv(`(CBC|complete blood count)\s+shows?\s+([^.]+)`, "CBC", "laboratory"),
	inv(`(hemoglobin|Hgb|Hb)\s*[:=]\s*([0-9.]+)`, "Hemoglobin", "laboratory"),
	inv(`(glucose|blood sugar)\s*[:=]\s*([0-9.]+)`, "Glucose", "laboratory"),
	inv(`(creatinine)\s*[:=]\s*([0-9.]+)`, "Creatinine", "laboratory"),
	inv(`(CSF|cerebrospinal fluid)\s+shows?\s+([^.]+)`, "CSF", "laboratory"),
	inv(`(CSF|cerebrospinal fluid)\s+analysis\s+reveals?\s+([^.]+)`, "CSF", "laboratory"),
	inv(`(lumbar puncture)\s+shows?\s+([^.]+)`, "CSF", "laboratory"),
	inv(`(antibody|antibodies)\s+to\s+([^.]+)`, "Antibody", "laboratory"),
	inv(`(anti-[A-Za-z0-9]+)\s+antibodies?\s+([^.]+)`, "Antibody", "laboratory"),
	inv(`(genetic\s+testing)\s+shows?\s+([^.]+)`, "Genetic", "laboratory"),
	inv(`(mutation|deletion)\s+in\s+([^.]+)`, "Genetic", "laboratory"),

	// Pathology
	inv(`(biopsy)\s+shows?\s+([^.]+)`, "Biopsy", "pathology"),
	inv(`(histopathology)\s+shows?\s+([^.]+)`, "Histopathology", "pathology"),
	inv(`(pathology)\s+shows?\s+([^.]+)`, "Pathology", "pathology"),

	// Bedside tests
	inv(`(Tensilon test)\s+([^.]+)`, "Tensilon", "clinical_tests"),
	inv(`(ice pack test)\s+([^.]+)`, "Ice pack", "clinical_tests"),
	inv(`(Romberg test)\s+([^.]+)`, "Romberg", "clinical_tests"),
}

// Critical-phrase passes. Quoted strings are handled separately by the
// extractor because the phrase is the inner group, not the full match.
var quotedPhrasePattern = regexp.MustCompile(`"([^"]*)"`)

var medicalPhrasePatterns = []Pattern{
	{Regexp: regexp.MustCompile(`(?i)\b[A-Z][a-z]+'?s\s+(?:syndrome|disease|sign|test|maneuver)\b`), Subtype: "eponym"},
	{Regexp: regexp.MustCompile(`(?i)\bfigure\s+of\s+\d+\b`), Subtype: "figure_pattern"},
	{Regexp: regexp.MustCompile(`(?i)\b\d+[-/]\d+\s+(?:rule|criteria|scale)\b`), Subtype: "medical_scale"},
}

// catalog drives the extractor. Order fixes the cross-category ordering
// of rendered requirement blocks.
var catalog = []struct {
	Category FindingCategory
	Patterns []Pattern
}{
	{CategoryLateralization, lateralizationPatterns},
	{CategorySpecificSign, specificSignPatterns},
	{CategoryClinicalContext, clinicalContextPatterns},
	{CategoryTemporal, temporalPatterns},
	{CategoryAnatomical, anatomicalPatterns},
	{CategoryInvestigation, investigationPatterns},
}
