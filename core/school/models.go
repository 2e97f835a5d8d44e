package school

// Every attribute is optional: unset values are sent as JSON null and left out of stored documents.

// Class is a school class (e.g. "3A").
type Class struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	Name        *string `json:"nomClasse" bson:"nomClasse,omitempty"`
	Level       *string `json:"niveau" bson:"niveau,omitempty"`
	Capacity    *int    `json:"capacite" bson:"capacite,omitempty"`
	Description *string `json:"description" bson:"description,omitempty"`
}

// Course belongs to a class by name; Class is a free-text label, not a reference.
type Course struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	Name        *string `json:"nomCours" bson:"nomCours,omitempty"`
	Description *string `json:"description" bson:"description,omitempty"`
	Duration    *int    `json:"duree" bson:"duree,omitempty"` // hours
	Class       *string `json:"classe" bson:"classe,omitempty"`
}

type Student struct {
	ID              string  `json:"id" bson:"_id,omitempty"`
	LastName        *string `json:"nom" bson:"nom,omitempty"`
	FirstName       *string `json:"prenom" bson:"prenom,omitempty"`
	Sex             *string `json:"sexe" bson:"sexe,omitempty"`
	ClassName       *string `json:"nomClasse" bson:"nomClasse,omitempty"`
	Level           *string `json:"niveau" bson:"niveau,omitempty"`
	MatriculationNo *string `json:"matricule" bson:"matricule,omitempty"`
	BirthDate       *string `json:"dateNaissance" bson:"dateNaissance,omitempty"`
	BirthCity       *string `json:"villeNaissance" bson:"villeNaissance,omitempty"`
	Phone           *string `json:"telephone" bson:"telephone,omitempty"`
}

type Teacher struct {
	ID        string  `json:"id" bson:"_id,omitempty"`
	LastName  *string `json:"nomEnseignant" bson:"nomEnseignant,omitempty"`
	FirstName *string `json:"prenomEnseignant" bson:"prenomEnseignant,omitempty"`
	Specialty *string `json:"specialite" bson:"specialite,omitempty"`
	Phone     *string `json:"telephone" bson:"telephone,omitempty"`
	Email     *string `json:"email" bson:"email,omitempty"`
}

// AttendanceMark records whether a student attended a course on a date.
type AttendanceMark struct {
	ID        string  `json:"id" bson:"_id,omitempty"`
	StudentID *string `json:"eleveId" bson:"eleveId,omitempty"`
	CourseID  *string `json:"coursId" bson:"coursId,omitempty"`
	Date      *string `json:"date" bson:"date,omitempty"`
	Present   *bool   `json:"present" bson:"present,omitempty"`
}

type TimetableSlot struct {
	ID        string  `json:"id" bson:"_id,omitempty"`
	ClassID   *string `json:"classeId" bson:"classeId,omitempty"`
	Level     *string `json:"niveau" bson:"niveau,omitempty"`
	CourseID  *string `json:"coursId" bson:"coursId,omitempty"`
	Day       *string `json:"jour" bson:"jour,omitempty"`
	StartTime *string `json:"heureDebut" bson:"heureDebut,omitempty"`
	EndTime   *string `json:"heureFin" bson:"heureFin,omitempty"`
}

type Grade struct {
	ID              string   `json:"id" bson:"_id,omitempty"`
	MatriculationNo *string  `json:"matriculeEleve" bson:"matriculeEleve,omitempty"`
	CourseName      *string  `json:"nomCours" bson:"nomCours,omitempty"`
	Class           *string  `json:"classe" bson:"classe,omitempty"`
	Score           *float64 `json:"valeur" bson:"valeur,omitempty"`
	EvaluationType  *string  `json:"typeEvaluation" bson:"typeEvaluation,omitempty"` // Contrôle, Examen, TP...
	EvaluationDate  *string  `json:"dateEvaluation" bson:"dateEvaluation,omitempty"`
	Remark          *string  `json:"observation" bson:"observation,omitempty"`
}

// TuitionRecord is a tuition payment. MonthlyAmount is derived from AnnualAmount, see DeriveMonthlyAmount.
type TuitionRecord struct {
	ID              string   `json:"id" bson:"_id,omitempty"`
	MatriculationNo *string  `json:"matriculeEleve" bson:"matriculeEleve,omitempty"`
	StudentName     *string  `json:"nomEleve" bson:"nomEleve,omitempty"`
	ClassName       *string  `json:"nomClasse" bson:"nomClasse,omitempty"`
	AnnualAmount    *float64 `json:"montantAnnuel" bson:"montantAnnuel,omitempty"`
	MonthlyAmount   *float64 `json:"montantMensuel" bson:"montantMensuel,omitempty"`
	Month           *string  `json:"mois" bson:"mois,omitempty"`
	Year            *int     `json:"annee" bson:"annee,omitempty"`
	AmountPaid      *float64 `json:"montantPaye" bson:"montantPaye,omitempty"`
	PaymentDate     *string  `json:"datePaiement" bson:"datePaiement,omitempty"`
	PaymentMethod   *string  `json:"modePaiement" bson:"modePaiement,omitempty"`
	Status          *string  `json:"statut" bson:"statut,omitempty"`
	Remark          *string  `json:"observation" bson:"observation,omitempty"`
}
