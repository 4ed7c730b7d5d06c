package classifier

// SampleTrain trains c on a small fixed set of good and bad documents.
func SampleTrain(c *Classifier) {
	c.Train("Nobody owns the water.", "good")
	c.Train("the quick rabbit jumps fences", "good")
	c.Train("buy pharmaceuticals now", "bad")
	c.Train("make quick money at the online casino", "bad")
	c.Train("the quick brown fox jumps", "good")
}
